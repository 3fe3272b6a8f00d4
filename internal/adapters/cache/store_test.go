package cache_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexindex/bnss/internal/adapters/cache"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

func TestStore_Put(t *testing.T) {
	t.Parallel()

	rawDir := t.TempDir()
	store := cache.NewStore(rawDir)

	body := []byte("<html><body>Section 1</body></html>")
	meta := ports.PageMetadata{
		SourceURL:   "https://example.com/bnss/sections",
		FetchedAt:   "2026-08-23T10:00:00Z",
		HTTPStatus:  200,
		ContentHash: domain.ContentHash(body),
	}

	path, err := store.Put(context.Background(), "2026-08-23", "https://example.com/bnss/sections", body, meta)
	require.NoError(t, err)
	assert.Equal(t, domain.RawPath(rawDir, "2026-08-23", "https://example.com/bnss/sections"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	sidecar, err := os.ReadFile(domain.RawMetaPath(rawDir, "2026-08-23", "https://example.com/bnss/sections"))
	require.NoError(t, err)

	var gotMeta ports.PageMetadata
	require.NoError(t, json.Unmarshal(sidecar, &gotMeta))
	assert.Equal(t, meta, gotMeta)
}

func TestStore_Put_OverwritesPreviousBody(t *testing.T) {
	t.Parallel()

	rawDir := t.TempDir()
	store := cache.NewStore(rawDir)
	url := "https://example.com/bnss/sections"

	_, err := store.Put(context.Background(), "2026-08-23", url, []byte("first"), ports.PageMetadata{})
	require.NoError(t, err)

	path, err := store.Put(context.Background(), "2026-08-23", url, []byte("second"), ports.PageMetadata{})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestStore_Put_VersionsDoNotCollide(t *testing.T) {
	t.Parallel()

	rawDir := t.TempDir()
	store := cache.NewStore(rawDir)
	url := "https://example.com/bnss/sections"

	oldPath, err := store.Put(context.Background(), "2026-08-01", url, []byte("old"), ports.PageMetadata{})
	require.NoError(t, err)

	newPath, err := store.Put(context.Background(), "2026-08-23", url, []byte("new"), ports.PageMetadata{})
	require.NoError(t, err)

	assert.NotEqual(t, oldPath, newPath)

	old, err := os.ReadFile(oldPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), old)
}

func TestStore_Put_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	rawDir := t.TempDir()
	store := cache.NewStore(rawDir)

	_, err := store.Put(context.Background(), "2026-08-23", "https://example.com/a", []byte("body"), ports.PageMetadata{})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(rawDir, "2026-08-23"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestStore_InterruptedWriteKeepsPreviousBody(t *testing.T) {
	t.Parallel()

	rawDir := t.TempDir()
	store := cache.NewStore(rawDir)
	url := "https://example.com/bnss/sections"

	path, err := store.Put(context.Background(), "2026-08-23", url, []byte("complete"), ports.PageMetadata{})
	require.NoError(t, err)

	// A write that died mid-flight leaves a partial temp file next to the
	// cached page. The rename never happened, so the page is untouched.
	stray := filepath.Join(rawDir, "2026-08-23", "page-crashed.tmp")
	require.NoError(t, os.WriteFile(stray, []byte("parti"), 0o644))

	assert.True(t, store.Exists(path))
	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("complete"), got)

	// The next write replaces the page as usual.
	path, err = store.Put(context.Background(), "2026-08-23", url, []byte("recovered"), ports.PageMetadata{})
	require.NoError(t, err)
	got, err = store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), got)
}

func TestStore_Put_CanceledContext(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Put(ctx, "2026-08-23", "https://example.com/a", []byte("body"), ports.PageMetadata{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_ExistsAndRead(t *testing.T) {
	t.Parallel()

	rawDir := t.TempDir()
	store := cache.NewStore(rawDir)

	path, err := store.Put(context.Background(), "2026-08-23", "https://example.com/a", []byte("body"), ports.PageMetadata{})
	require.NoError(t, err)

	assert.True(t, store.Exists(path))
	assert.False(t, store.Exists(filepath.Join(rawDir, "2026-08-23", "missing.html")))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("body"), got)
}

func TestStore_Read_Missing(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(t.TempDir())

	_, err := store.Read(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read cache entry")
}
