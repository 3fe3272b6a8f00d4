package domain

import (
	"maps"
	"time"
)

// RecordStatus describes the state of a manifest record.
type RecordStatus string

const (
	// RecordFresh marks a record whose body was retrieved on the last fetch.
	RecordFresh RecordStatus = "fresh"
	// RecordNotModified marks a record revalidated by a 304 on the last fetch.
	RecordNotModified RecordStatus = "not_modified"
	// RecordFailed marks a record whose last fetch ended in error. The
	// previous content hash and local path are preserved for downstream use.
	RecordFailed RecordStatus = "failed"
)

// ManifestRecord holds the last-known validators and cache location for one
// URL. Invariant: whenever ContentHash is non-empty, LocalPath names an
// existing file whose SHA-256 equals ContentHash.
type ManifestRecord struct {
	ETag         string       `json:"etag,omitempty"`
	LastModified string       `json:"last_modified,omitempty"`
	ContentHash  string       `json:"content_hash,omitempty"`
	FetchedAt    time.Time    `json:"fetched_at"`
	LocalPath    string       `json:"local_path,omitempty"`
	Status       RecordStatus `json:"status"`
}

// Validators returns the conditional-request validators stored in the record.
func (r ManifestRecord) Validators() Validators {
	return Validators{ETag: r.ETag, LastModified: r.LastModified}
}

// Manifest maps each known URL to its latest fetch record. It is persisted
// as a single JSON document and read-modify-written as a whole.
type Manifest map[string]ManifestRecord

// Get returns the record for a URL, if present.
func (m Manifest) Get(url string) (ManifestRecord, bool) {
	rec, ok := m[url]
	return rec, ok
}

// Clone returns a shallow copy of the manifest.
func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	maps.Copy(out, m)
	return out
}

// Validators carries the conditional GET request validators for a URL.
type Validators struct {
	ETag         string
	LastModified string
}

// Empty reports whether no validator is available.
func (v Validators) Empty() bool {
	return v.ETag == "" && v.LastModified == ""
}
