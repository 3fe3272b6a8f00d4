package fetch_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lexindex/bnss/internal/adapters/telemetry"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"github.com/lexindex/bnss/internal/core/ports/mocks"
	"github.com/lexindex/bnss/internal/engine/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testAsOf = "2026-08-23"
	indexURL = "https://cytrain.ncrb.gov.in/staticpage/web_pages/IndexBNSS.html"
	tableURL = "https://cytrain.ncrb.gov.in/staticpage/web_pages/SectionTableBNSS.html"
)

type engineFixture struct {
	source   *mocks.MockPageSource
	cache    *mocks.MockCacheStore
	manifest *mocks.MockManifestStore
	logger   *mocks.MockLogger
	settings domain.Settings
	clock    *clockwork.FakeClock
	engine   *fetch.Engine
}

// newFixture builds an engine with zeroed delays so no test ever sleeps.
func newFixture(t *testing.T) *engineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &engineFixture{
		source:   mocks.NewMockPageSource(ctrl),
		cache:    mocks.NewMockCacheStore(ctrl),
		manifest: mocks.NewMockManifestStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		clock:    clockwork.NewFakeClockAt(time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)),
	}

	f.settings = domain.DefaultSettings()
	f.settings.DataRoot = t.TempDir()
	f.settings.MaxAttempts = 3
	f.settings.MinDelay = 0
	f.settings.BackoffMin = 0
	f.settings.BackoffMax = 0
	f.settings.BackoffJitter = 0

	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	f.engine = fetch.NewEngineWithClock(
		f.source, f.cache, f.manifest,
		telemetry.NewNoOpTracer(), f.logger,
		f.settings, f.clock,
	)
	return f
}

func pageOK(body string) *ports.PageResult {
	return &ports.PageResult{
		Body:         []byte(body),
		HTTPStatus:   200,
		ETag:         `"v1"`,
		LastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
		Headers:      map[string]string{"content-type": "text/html"},
	}
}

func TestEngine_FetchMany_Fresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := "<html>sections</html>"
	wantHash := domain.ContentHash([]byte(body))

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(pageOK(body), nil)
	f.cache.EXPECT().
		Put(gomock.Any(), testAsOf, indexURL, []byte(body), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ []byte, meta ports.PageMetadata) (string, error) {
			assert.Equal(t, indexURL, meta.SourceURL)
			assert.Equal(t, 200, meta.HTTPStatus)
			assert.Equal(t, wantHash, meta.ContentHash)
			return "/data/raw/" + testAsOf + "/abc.html", nil
		})
	f.manifest.EXPECT().
		Put(gomock.Any(), indexURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, rec domain.ManifestRecord) error {
			assert.Equal(t, domain.RecordFresh, rec.Status)
			assert.Equal(t, wantHash, rec.ContentHash)
			assert.Equal(t, `"v1"`, rec.ETag)
			return nil
		})

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)

	out := report.Outcomes[0]
	assert.True(t, out.Succeeded)
	assert.Equal(t, domain.StatusFetched, out.Status)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, wantHash, out.ContentHash)
	assert.False(t, report.HasFailures())
}

func TestEngine_FetchMany_NotModified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cachedPath := "/data/raw/2026-08-20/abc.html"

	prev := domain.ManifestRecord{
		ETag:         `"v1"`,
		LastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
		ContentHash:  "cafe",
		FetchedAt:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		LocalPath:    cachedPath,
		Status:       domain.RecordFresh,
	}

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{indexURL: prev}, nil)
	f.cache.EXPECT().Exists(cachedPath).Return(true).AnyTimes()
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, prev.Validators()).
		Return(&ports.PageResult{NotModified: true, HTTPStatus: 304}, nil)
	f.manifest.EXPECT().
		Put(gomock.Any(), indexURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, rec domain.ManifestRecord) error {
			assert.Equal(t, domain.RecordNotModified, rec.Status)
			assert.Equal(t, "cafe", rec.ContentHash)
			assert.Equal(t, cachedPath, rec.LocalPath)
			return nil
		})

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	out := report.Outcomes[0]
	assert.True(t, out.Succeeded)
	assert.Equal(t, domain.StatusNotModified, out.Status)
	assert.Equal(t, "cafe", out.ContentHash)
	assert.Equal(t, cachedPath, out.LocalPath)
}

func TestEngine_FetchMany_InvalidAsOf(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.FetchMany(context.Background(), "23-08-2026", []string{indexURL})
	require.ErrorIs(t, err, domain.ErrInvalidAsOf)
}

func TestEngine_FetchMany_CorruptManifestFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.manifest.EXPECT().Load(ctx).Return(nil, domain.ErrManifestCorrupt)

	_, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.ErrorIs(t, err, domain.ErrManifestCorrupt)
}

func TestEngine_RetriesTransientThenSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := "<html>recovered</html>"

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	gomock.InOrder(
		f.source.EXPECT().
			Fetch(gomock.Any(), indexURL, domain.Validators{}).
			Return(nil, domain.ErrRetryableStatus).
			Times(2),
		f.source.EXPECT().
			Fetch(gomock.Any(), indexURL, domain.Validators{}).
			Return(pageOK(body), nil),
	)
	f.cache.EXPECT().
		Put(gomock.Any(), testAsOf, indexURL, []byte(body), gomock.Any()).
		Return("/data/raw/p.html", nil)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	out := report.Outcomes[0]
	assert.True(t, out.Succeeded)
	assert.Equal(t, 3, out.Attempts)
}

func TestEngine_PermanentFailureNoRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(nil, domain.ErrPermanentStatus).
		Times(1)
	f.manifest.EXPECT().
		Put(gomock.Any(), indexURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, rec domain.ManifestRecord) error {
			assert.Equal(t, domain.RecordFailed, rec.Status)
			return nil
		})

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	out := report.Outcomes[0]
	assert.False(t, out.Succeeded)
	assert.Equal(t, domain.StatusError, out.Status)
	assert.Equal(t, 1, out.Attempts)
	assert.Contains(t, out.ErrorDetail, "permanent error status")
}

func TestEngine_AttemptsExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(nil, domain.ErrRetryableStatus).
		Times(3)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	out := report.Outcomes[0]
	assert.False(t, out.Succeeded)
	assert.Equal(t, 3, out.Attempts)
	assert.Contains(t, out.ErrorDetail, "retry attempts exhausted")
}

func TestEngine_RateLimitHonorsRetryAfter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := "<html>ok</html>"

	limited := &domain.RateLimitHint{Err: domain.ErrRateLimited, RetryAfter: 0}

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	gomock.InOrder(
		f.source.EXPECT().
			Fetch(gomock.Any(), indexURL, domain.Validators{}).
			Return(nil, limited),
		f.source.EXPECT().
			Fetch(gomock.Any(), indexURL, domain.Validators{}).
			Return(pageOK(body), nil),
	)
	f.cache.EXPECT().Put(gomock.Any(), testAsOf, indexURL, []byte(body), gomock.Any()).Return("/p.html", nil)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Outcomes[0].Attempts)
}

func TestEngine_NotModifiedWithoutCacheRefetches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := "<html>again</html>"
	stalePath := "/data/raw/2026-08-20/gone.html"

	prev := domain.ManifestRecord{
		ETag:      `"v1"`,
		LocalPath: stalePath,
		Status:    domain.RecordFresh,
	}

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{indexURL: prev}, nil)
	// Cached body is gone, so no validators are sent. A misbehaving portal
	// answering 304 anyway must trigger an unconditional refetch.
	f.cache.EXPECT().Exists(stalePath).Return(false).AnyTimes()
	gomock.InOrder(
		f.source.EXPECT().
			Fetch(gomock.Any(), indexURL, domain.Validators{}).
			Return(&ports.PageResult{NotModified: true, HTTPStatus: 304}, nil),
		f.source.EXPECT().
			Fetch(gomock.Any(), indexURL, domain.Validators{}).
			Return(pageOK(body), nil),
	)
	f.cache.EXPECT().Put(gomock.Any(), testAsOf, indexURL, []byte(body), gomock.Any()).Return("/p.html", nil)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	out := report.Outcomes[0]
	assert.True(t, out.Succeeded)
	assert.Equal(t, domain.StatusFetched, out.Status)
	assert.Equal(t, 2, out.Attempts)
}

func TestEngine_CommitFailureNotRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := "<html>doomed</html>"

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(pageOK(body), nil).
		Times(1)
	f.cache.EXPECT().
		Put(gomock.Any(), testAsOf, indexURL, []byte(body), gomock.Any()).
		Return("", domain.ErrCacheWriteFailed)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	out := report.Outcomes[0]
	assert.False(t, out.Succeeded)
	assert.Contains(t, out.ErrorDetail, "failed to write cache entry")
}

func TestEngine_BatchIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	badURL := "https://cytrain.ncrb.gov.in/staticpage/web_pages/Missing.html"
	urls := []string{indexURL, badURL, tableURL}

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	for _, u := range []string{indexURL, tableURL} {
		f.source.EXPECT().
			Fetch(gomock.Any(), u, domain.Validators{}).
			Return(pageOK("<html>"+u+"</html>"), nil)
		f.cache.EXPECT().
			Put(gomock.Any(), testAsOf, u, gomock.Any(), gomock.Any()).
			Return("/raw/"+domain.URLKey(u)+".html", nil)
	}
	f.source.EXPECT().
		Fetch(gomock.Any(), badURL, domain.Validators{}).
		Return(nil, domain.ErrPermanentStatus)
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

	report, err := f.engine.FetchMany(ctx, testAsOf, urls)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 3)

	assert.True(t, report.Outcomes[0].Succeeded)
	assert.False(t, report.Outcomes[1].Succeeded)
	assert.True(t, report.Outcomes[2].Succeeded)

	fetched, notModified, errored := report.Counts()
	assert.Equal(t, 2, fetched)
	assert.Equal(t, 0, notModified)
	assert.Equal(t, 1, errored)

	err = fetch.HasFailuresErr(report)
	require.ErrorIs(t, err, domain.ErrFetchBatchHadFailures)
}

func TestEngine_DuplicateURLsShareOneFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := "<html>once</html>"

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(pageOK(body), nil).
		Times(1)
	f.cache.EXPECT().
		Put(gomock.Any(), testAsOf, indexURL, []byte(body), gomock.Any()).
		Return("/p.html", nil).
		Times(1)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil).Times(1)

	report, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL, indexURL})
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)

	assert.Equal(t, report.Outcomes[0], report.Outcomes[1])
	assert.True(t, report.Outcomes[0].Succeeded)
}

func TestEngine_WritesRunReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(pageOK("<html></html>"), nil)
	f.cache.EXPECT().Put(gomock.Any(), testAsOf, indexURL, gomock.Any(), gomock.Any()).Return("/p.html", nil)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	_, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	reportPath := domain.FetchReportPath(f.settings.ManifestsDir(), testAsOf)
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), indexURL)
	assert.Contains(t, string(data), `"as_of": "`+testAsOf+`"`)
}

func TestHasFailuresErr_CleanReport(t *testing.T) {
	report := &domain.BatchReport{
		AsOf: testAsOf,
		Outcomes: []domain.FetchOutcome{
			{URL: indexURL, Succeeded: true, Status: domain.StatusFetched},
		},
	}
	require.NoError(t, fetch.HasFailuresErr(report))
	require.NoError(t, fetch.HasFailuresErr(nil))
}

func TestEngine_FetchMany_PrunesOldVersions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.settings.KeepVersions = false
	engine := fetch.NewEngineWithClock(
		f.source, f.cache, f.manifest,
		telemetry.NewNoOpTracer(), f.logger,
		f.settings, f.clock,
	)

	oldDir := filepath.Join(f.settings.RawDir(), "2026-08-20")
	staleDir := filepath.Join(f.settings.RawDir(), "scratch")
	require.NoError(t, os.MkdirAll(oldDir, 0o750))
	require.NoError(t, os.MkdirAll(staleDir, 0o750))

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(pageOK("<html></html>"), nil)
	f.cache.EXPECT().Put(gomock.Any(), testAsOf, indexURL, gomock.Any(), gomock.Any()).Return("/p.html", nil)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	_, err := engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	_, statErr := os.Stat(oldDir)
	assert.True(t, os.IsNotExist(statErr), "old version directory should be pruned")

	// Directories that are not as-of labels are left alone.
	_, statErr = os.Stat(staleDir)
	assert.NoError(t, statErr)
}

func TestEngine_FetchMany_ReportReplacedAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A prior run's report, torn mid-write.
	require.NoError(t, os.MkdirAll(f.settings.ManifestsDir(), 0o750))
	reportPath := domain.FetchReportPath(f.settings.ManifestsDir(), testAsOf)
	require.NoError(t, os.WriteFile(reportPath, []byte(`{"as_of": "2026-0`), 0o644))

	f.manifest.EXPECT().Load(ctx).Return(domain.Manifest{}, nil)
	f.source.EXPECT().
		Fetch(gomock.Any(), indexURL, domain.Validators{}).
		Return(pageOK("<html></html>"), nil)
	f.cache.EXPECT().Put(gomock.Any(), testAsOf, indexURL, gomock.Any(), gomock.Any()).Return("/p.html", nil)
	f.manifest.EXPECT().Put(gomock.Any(), indexURL, gomock.Any()).Return(nil)

	_, err := f.engine.FetchMany(ctx, testAsOf, []string{indexURL})
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "report should be replaced with a complete document")

	leftovers, err := filepath.Glob(filepath.Join(f.settings.ManifestsDir(), "report-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
