package ports

import (
	"context"

	"github.com/lexindex/bnss/internal/core/domain"
)

// ManifestStore owns the URL manifest document. Load returns the whole
// manifest; Put replaces one record and durably rewrites the document.
// Implementations serialize Put calls so close-together fetch completions
// cannot lose updates, and write through a temp file plus rename so an
// interrupted write never leaves an unparseable document behind.
//
//go:generate mockgen -source=manifest_store.go -destination=mocks/mock_manifest_store.go -package=mocks
type ManifestStore interface {
	// Load reads the manifest document. A missing document yields an
	// empty manifest; an unparseable one yields domain.ErrManifestCorrupt.
	Load(ctx context.Context) (domain.Manifest, error)

	// Put stores the record for one URL and rewrites the document.
	Put(ctx context.Context, url string, rec domain.ManifestRecord) error
}
