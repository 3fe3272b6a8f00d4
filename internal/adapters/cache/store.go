// Package cache implements the versioned page cache on the local filesystem.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore with one body file plus one metadata
// sidecar per (as-of, url) pair under the raw directory.
type Store struct {
	rawDir string
}

// NewStore creates a cache store rooted at the given raw directory.
func NewStore(rawDir string) *Store {
	return &Store{rawDir: rawDir}
}

// Put writes the page body and its metadata sidecar for one URL under an
// as-of version and returns the body's path. Both files go through a temp
// file and rename, so a crash mid-write never leaves partial content at the
// final path. The body lands before the sidecar: a sidecar never describes
// a missing body.
func (s *Store) Put(ctx context.Context, asOf, url string, body []byte, meta ports.PageMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := domain.RawPath(s.rawDir, asOf, url)
	if err := atomicWriteFile(path, body); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "url", url)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "url", url)
	}
	if err := atomicWriteFile(domain.RawMetaPath(s.rawDir, asOf, url), data); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "url", url)
	}

	return path, nil
}

// Exists reports whether path holds a regular file.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the bytes of a previously cached body.
func (s *Store) Read(path string) ([]byte, error) {
	//nolint:gosec // Path comes from the manifest, which this pipeline wrote
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	return data, nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheDirUnavailable.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "page-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
