package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

const (
	// RawDirName is the directory holding cached page bodies, one
	// subdirectory per as-of version label.
	RawDirName = "raw"

	// ManifestsDirName is the directory holding the URL manifest and
	// per-run fetch reports.
	ManifestsDirName = "manifests"

	// DatasetsDirName is the directory holding derived JSONL datasets.
	DatasetsDirName = "datasets"

	// ManifestFileName is the single JSON document mapping URL to its
	// latest fetch record.
	ManifestFileName = "url_cache.json"

	// SectionsFileName is the derived section index dataset.
	SectionsFileName = "bnss_sections_index.jsonl"

	// CrosswalkFileName is the derived BNSS/CrPC crosswalk dataset.
	CrosswalkFileName = "bnss_crosswalk.jsonl"

	// ConfigFileName is the pipeline configuration file.
	ConfigFileName = "bnss.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// URLKey returns the stable cache key for a URL: the xxhash64 of the URL in
// hex. It names cache files, so it must never change across releases.
func URLKey(url string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(url))
}

// ContentHash returns the SHA-256 hex digest of a page body.
func ContentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// RawPath returns the cache file path for a URL under an as-of version.
func RawPath(rawDir, asOf, url string) string {
	return filepath.Join(rawDir, asOf, URLKey(url)+".html")
}

// RawMetaPath returns the sidecar metadata path for a cached page body.
func RawMetaPath(rawDir, asOf, url string) string {
	return filepath.Join(rawDir, asOf, URLKey(url)+".json")
}

// ManifestPath returns the path of the manifest document.
func ManifestPath(manifestsDir string) string {
	return filepath.Join(manifestsDir, ManifestFileName)
}

// FetchReportPath returns the path of the per-run fetch report for an as-of
// version.
func FetchReportPath(manifestsDir, asOf string) string {
	return filepath.Join(manifestsDir, "fetch_"+asOf+".json")
}
