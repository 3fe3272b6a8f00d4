// Package ports defines the core interfaces of the pipeline.
package ports

import "context"

// PageMetadata is the sidecar information persisted next to a cached body.
type PageMetadata struct {
	SourceURL   string            `json:"source_url"`
	FetchedAt   string            `json:"fetched_at"`
	HTTPStatus  int               `json:"status"`
	Headers     map[string]string `json:"headers,omitempty"`
	ContentHash string            `json:"content_hash"`
}

// CacheStore persists fetched page bodies. Writes are atomic: a crash or a
// concurrent reader never observes a partially written file.
//
//go:generate mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// Put writes a page body (and its metadata sidecar) under the given
	// as-of version and returns the body's path.
	Put(ctx context.Context, asOf, url string, body []byte, meta PageMetadata) (string, error)

	// Exists reports whether a previously returned path still holds a file.
	Exists(path string) bool

	// Read returns the bytes of a previously cached body.
	Read(path string) ([]byte, error)
}
