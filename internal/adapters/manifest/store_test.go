package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexindex/bnss/internal/adapters/manifest"
	"github.com/lexindex/bnss/internal/core/domain"
)

func TestStore_Load_MissingDocument(t *testing.T) {
	t.Parallel()

	store := manifest.NewStore(t.TempDir())

	m, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestStore_PutThenLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := manifest.NewStore(dir)

	rec := domain.ManifestRecord{
		ETag:         `"abc123"`,
		LastModified: "Mon, 17 Aug 2026 08:00:00 GMT",
		ContentHash:  "deadbeef",
		FetchedAt:    time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		LocalPath:    filepath.Join(dir, "raw", "2026-08-23", "page.html"),
		Status:       domain.RecordFresh,
	}

	require.NoError(t, store.Put(context.Background(), "https://example.com/a", rec))

	m, err := store.Load(context.Background())
	require.NoError(t, err)
	got, ok := m.Get("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestStore_Put_SurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first := manifest.NewStore(dir)
	require.NoError(t, first.Put(context.Background(), "https://example.com/a", domain.ManifestRecord{
		ETag:   `"v1"`,
		Status: domain.RecordFresh,
	}))

	second := manifest.NewStore(dir)
	m, err := second.Load(context.Background())
	require.NoError(t, err)
	got, ok := m.Get("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, `"v1"`, got.ETag)
}

func TestStore_Put_ConcurrentWritersLoseNoUpdates(t *testing.T) {
	t.Parallel()

	store := manifest.NewStore(t.TempDir())
	urls := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/d",
	}

	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Put(context.Background(), url, domain.ManifestRecord{Status: domain.RecordFresh})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	m, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, m, len(urls))
}

func TestStore_InterruptedWriteKeepsPreviousRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first := manifest.NewStore(dir)
	require.NoError(t, first.Put(context.Background(), "https://example.com/a", domain.ManifestRecord{
		ETag:   `"v1"`,
		Status: domain.RecordFresh,
	}))

	// A crash between CreateTemp and rename leaves a torn temp file beside
	// the manifest. The manifest itself still holds the last complete state.
	stray := filepath.Join(dir, "manifest-crashed.json")
	require.NoError(t, os.WriteFile(stray, []byte(`{"https://exa`), 0o644))

	second := manifest.NewStore(dir)
	m, err := second.Load(context.Background())
	require.NoError(t, err)
	got, ok := m.Get("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, `"v1"`, got.ETag)

	// Writes keep working and land in the real manifest.
	require.NoError(t, second.Put(context.Background(), "https://example.com/b", domain.ManifestRecord{
		Status: domain.RecordFresh,
	}))
	m, err = second.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, m, 2)
}

func TestStore_Load_CorruptDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := domain.ManifestPath(dir)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := manifest.NewStore(dir)

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestCorrupt)
}

func TestStore_Put_CorruptDocumentRefusesWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(domain.ManifestPath(dir), []byte("{not json"), 0o644))

	store := manifest.NewStore(dir)

	err := store.Put(context.Background(), "https://example.com/a", domain.ManifestRecord{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestCorrupt)

	// The corrupt document must be left untouched for inspection.
	data, readErr := os.ReadFile(domain.ManifestPath(dir))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("{not json"), data)
}
