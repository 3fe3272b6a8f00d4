package etl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lexindex/bnss/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.DatasetStore with one JSONL file per dataset under
// the datasets directory.
type Store struct {
	datasetsDir string
}

// NewStore creates a dataset store rooted at the given datasets directory.
func NewStore(datasetsDir string) *Store {
	return &Store{datasetsDir: datasetsDir}
}

// SectionsPath returns the path of the sections dataset.
func (s *Store) SectionsPath() string {
	return filepath.Join(s.datasetsDir, domain.SectionsFileName)
}

// CrosswalkPath returns the path of the crosswalk dataset.
func (s *Store) CrosswalkPath() string {
	return filepath.Join(s.datasetsDir, domain.CrosswalkFileName)
}

// WriteSections writes the sections dataset atomically and returns its path.
func (s *Store) WriteSections(ctx context.Context, rows []domain.SectionRow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.writeJSONL(s.SectionsPath(), func(enc *json.Encoder) error {
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCrosswalk writes the crosswalk dataset atomically and returns its path.
func (s *Store) WriteCrosswalk(ctx context.Context, rows []domain.CrosswalkRow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.writeJSONL(s.CrosswalkPath(), func(enc *json.Encoder) error {
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadSections reads the sections dataset back, one row per line.
func (s *Store) ReadSections(ctx context.Context) ([]domain.SectionRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []domain.SectionRow
	err := readJSONL(s.SectionsPath(), func(line []byte) error {
		var row domain.SectionRow
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadCrosswalk reads the crosswalk dataset back, one row per line.
func (s *Store) ReadCrosswalk(ctx context.Context) ([]domain.CrosswalkRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []domain.CrosswalkRow
	err := readJSONL(s.CrosswalkPath(), func(line []byte) error {
		var row domain.CrosswalkRow
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) writeJSONL(path string, encode func(*json.Encoder) error) (string, error) {
	var buf bytes.Buffer
	if err := encode(json.NewEncoder(&buf)); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrDatasetWriteFailed.Error()), "path", path)
	}

	if err := atomicWriteFile(path, buf.Bytes()); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrDatasetWriteFailed.Error()), "path", path)
	}
	return path, nil
}

func readJSONL(path string, each func(line []byte) error) error {
	//nolint:gosec // Path is derived from the configured data root
	f, err := os.Open(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDatasetReadFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := each(line); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrDatasetReadFailed.Error()), "path", path)
		}
	}
	if err := scanner.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDatasetReadFailed.Error()), "path", path)
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "dataset-*.tmp")
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
