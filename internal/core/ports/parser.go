package ports

import "github.com/lexindex/bnss/internal/core/domain"

// PageParser extracts structured rows from cached portal HTML.
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type PageParser interface {
	// ParseSections extracts section rows from the section index page.
	ParseSections(data []byte, meta domain.PageMeta) ([]domain.SectionRow, error)

	// ParseCrosswalk extracts crosswalk rows from the comparison table page.
	ParseCrosswalk(data []byte, meta domain.PageMeta) ([]domain.CrosswalkRow, error)
}
