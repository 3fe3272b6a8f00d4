// Package manifest implements the URL manifest document store.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/lexindex/bnss/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ManifestStore on a single JSON document.
// Put serializes writers and rewrites the whole document through a temp
// file plus rename, so close-together fetch completions cannot lose
// updates and an interrupted write never corrupts the document.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a manifest store for the document in the given directory.
func NewStore(manifestsDir string) *Store {
	return &Store{path: domain.ManifestPath(manifestsDir)}
}

// Load reads the manifest document. A missing document yields an empty
// manifest. An unparseable document is fatal: proceeding without validators
// would silently refetch everything and could clobber good cache state.
func (s *Store) Load(ctx context.Context) (domain.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Put stores the record for one URL and rewrites the document.
func (s *Store) Put(ctx context.Context, url string, rec domain.ManifestRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadLocked()
	if err != nil {
		return err
	}
	m[url] = rec

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	if err := s.atomicWrite(data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", s.path)
	}
	return nil
}

func (s *Store) loadLocked() (domain.Manifest, error) {
	//nolint:gosec // Path is derived from the configured data root
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Manifest{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", s.path)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrManifestCorrupt, err), "path", s.path)
	}
	if m == nil {
		m = domain.Manifest{}
	}
	return m, nil
}

// atomicWrite writes the document to a temp file and renames it into place.
func (s *Store) atomicWrite(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "manifest-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

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

	return os.Rename(tmpName, s.path)
}
