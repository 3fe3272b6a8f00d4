package ports

import (
	"context"

	"github.com/lexindex/bnss/internal/core/domain"
)

// DatasetStore persists and reads back the derived JSONL datasets.
// Writes are atomic, matching the cache store's guarantees.
//
//go:generate mockgen -source=dataset_store.go -destination=mocks/mock_dataset_store.go -package=mocks
type DatasetStore interface {
	// WriteSections writes the sections dataset and returns its path.
	WriteSections(ctx context.Context, rows []domain.SectionRow) (string, error)

	// WriteCrosswalk writes the crosswalk dataset and returns its path.
	WriteCrosswalk(ctx context.Context, rows []domain.CrosswalkRow) (string, error)

	// ReadSections reads the sections dataset back.
	ReadSections(ctx context.Context) ([]domain.SectionRow, error)

	// ReadCrosswalk reads the crosswalk dataset back.
	ReadCrosswalk(ctx context.Context) ([]domain.CrosswalkRow, error)
}
