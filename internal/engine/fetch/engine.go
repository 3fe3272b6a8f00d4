// Package fetch implements the conditional fetch-and-cache engine.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// parallelism bounds the number of in-flight fetch workers. The pacer
// serializes actual network attempts; workers above this limit would only
// queue on it.
const parallelism = 4

// Engine drives the fetch of a batch of URLs: manifest lookup, conditional
// GET, retry with backoff, cache write, manifest update.
type Engine struct {
	source   ports.PageSource
	cache    ports.CacheStore
	manifest ports.ManifestStore
	tracer   ports.Tracer
	logger   ports.Logger
	settings domain.Settings
	policy   domain.RetryPolicy
	clock    clockwork.Clock
	pacer    *Pacer
}

// NewEngine creates a fetch engine using the wall clock.
func NewEngine(
	source ports.PageSource,
	cache ports.CacheStore,
	manifest ports.ManifestStore,
	tracer ports.Tracer,
	logger ports.Logger,
	settings domain.Settings,
) *Engine {
	return newEngine(source, cache, manifest, tracer, logger, settings, clockwork.NewRealClock())
}

// NewEngineWithClock creates a fetch engine on an injected clock, so tests
// can drive pacing and backoff waits without real sleeps.
func NewEngineWithClock(
	source ports.PageSource,
	cache ports.CacheStore,
	manifest ports.ManifestStore,
	tracer ports.Tracer,
	logger ports.Logger,
	settings domain.Settings,
	clock clockwork.Clock,
) *Engine {
	return newEngine(source, cache, manifest, tracer, logger, settings, clock)
}

func newEngine(
	source ports.PageSource,
	cache ports.CacheStore,
	manifest ports.ManifestStore,
	tracer ports.Tracer,
	logger ports.Logger,
	settings domain.Settings,
	clock clockwork.Clock,
) *Engine {
	return &Engine{
		source:   source,
		cache:    cache,
		manifest: manifest,
		tracer:   tracer,
		logger:   logger,
		settings: settings,
		policy:   settings.RetryPolicy(),
		clock:    clock,
		pacer:    NewPacer(clock, settings.MinDelay),
	}
}

// FetchMany fetches a batch of URLs under one as-of version and returns the
// batch report, outcomes in input order. Individual URL failures are
// recorded in the report, never returned as an error: one bad page must not
// abort the rest of the batch. Only conditions that poison the whole run, a
// corrupt manifest or an invalid as-of label, fail the call.
func (e *Engine) FetchMany(ctx context.Context, asOf string, urls []string) (*domain.BatchReport, error) {
	if err := domain.ValidateAsOf(asOf); err != nil {
		return nil, zerr.With(err, "as_of", asOf)
	}

	manifest, err := e.manifest.Load(ctx)
	if err != nil {
		return nil, err
	}

	e.tracer.EmitPlan(ctx, urls)

	// Duplicate URLs in one batch share a single execution.
	index := make(map[string]int, len(urls))
	unique := make([]string, 0, len(urls))
	for _, url := range urls {
		if _, ok := index[url]; !ok {
			index[url] = len(unique)
			unique = append(unique, url)
		}
	}

	results := make([]domain.FetchOutcome, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, url := range unique {
		g.Go(func() error {
			results[i] = e.fetchOne(gctx, asOf, url, manifest)
			return nil
		})
	}
	// Workers never return errors; failures land in their outcome.
	_ = g.Wait()

	outcomes := make([]domain.FetchOutcome, len(urls))
	for i, url := range urls {
		outcomes[i] = results[index[url]]
	}

	report := &domain.BatchReport{AsOf: asOf, Outcomes: outcomes}
	if err := e.writeReport(report); err != nil {
		e.logger.Warn(fmt.Sprintf("could not write fetch report: %v", err))
	}

	// Failed URLs may still point at bodies from an earlier version, so
	// pruning only happens after a fully clean run.
	if !e.settings.KeepVersions && !report.HasFailures() {
		e.pruneOldVersions(asOf)
	}

	return report, nil
}

// pruneOldVersions removes raw cache directories of earlier as-of versions.
// Best effort: a directory that cannot be removed is logged and left behind.
func (e *Engine) pruneOldVersions(asOf string) {
	entries, err := os.ReadDir(e.settings.RawDir())
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == asOf {
			continue
		}
		if domain.ValidateAsOf(entry.Name()) != nil {
			continue
		}
		if err := os.RemoveAll(filepath.Join(e.settings.RawDir(), entry.Name())); err != nil {
			e.logger.Warn(fmt.Sprintf("could not prune cache version %s: %v", entry.Name(), err))
		}
	}
}

// fetchOne runs the retry loop for a single URL and always returns an
// outcome. The manifest is updated on every terminal state, including
// failure, so the next run sees what this one learned.
func (e *Engine) fetchOne(ctx context.Context, asOf, url string, manifest domain.Manifest) domain.FetchOutcome {
	ctx, span := e.tracer.Start(ctx, url)
	defer span.End()
	span.SetAttribute("url", url)
	span.SetAttribute("as_of", asOf)

	prev, hasPrev := manifest.Get(url)

	// Validators are only worth sending while the cached body they vouch
	// for still exists; a 304 with no local copy would leave us empty-handed.
	cond := domain.Validators{}
	if hasPrev && prev.LocalPath != "" && e.cache.Exists(prev.LocalPath) {
		cond = prev.Validators()
	}

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		attempts = attempt

		if err := e.pacer.Wait(ctx); err != nil {
			lastErr = err
			break
		}

		res, err := e.source.Fetch(ctx, url, cond)
		if err == nil {
			if res.NotModified && (prev.LocalPath == "" || !e.cache.Exists(prev.LocalPath)) {
				// The portal confirmed a copy we no longer have.
				// Drop the validators and fetch the body for real.
				lastErr = zerr.With(domain.ErrNotModifiedWithoutCache, "url", url)
				cond = domain.Validators{}
				_, _ = fmt.Fprintf(span, "304 without a cached copy, refetching unconditionally\n")
				continue
			}

			outcome, commitErr := e.commit(ctx, asOf, url, prev, res)
			if commitErr != nil {
				// Cache or manifest write failures are not the portal's
				// fault; retrying the request cannot fix them.
				lastErr = commitErr
				break
			}
			outcome.Attempts = attempt
			span.SetAttribute("fetch.status", string(outcome.Status))
			span.SetAttribute("attempts", attempt)
			return outcome
		}

		lastErr = err
		class, retryAfter := domain.ClassifyError(err)
		decision := e.policy.Decide(attempt, class, retryAfter)
		if !decision.Retry {
			break
		}

		_, _ = fmt.Fprintf(span, "attempt %d/%d failed (%s), retrying in %s\n",
			attempt, e.policy.MaxAttempts, class, decision.Delay)

		if err := e.sleep(ctx, decision.Delay); err != nil {
			lastErr = err
			attempts = attempt
			break
		}
	}

	if attempts >= e.policy.MaxAttempts && lastErr != nil {
		if class, _ := domain.ClassifyError(lastErr); class != domain.FailurePermanent {
			lastErr = zerr.Wrap(lastErr, domain.ErrAttemptsExhausted.Error())
		}
	}

	e.recordFailure(ctx, url, prev, hasPrev)

	span.RecordError(lastErr)
	span.SetAttribute("fetch.status", string(domain.StatusError))
	span.SetAttribute("attempts", attempts)

	return domain.FetchOutcome{
		URL:         url,
		Succeeded:   false,
		Status:      domain.StatusError,
		ErrorDetail: lastErr.Error(),
		Attempts:    attempts,
		FetchedAt:   e.clock.Now().UTC(),
	}
}

// commit persists a successful portal answer: body and sidecar into the
// cache for fresh content, then the manifest record. A 304 only refreshes
// the record's timestamp and validators; the cached body stays as is.
func (e *Engine) commit(ctx context.Context, asOf, url string, prev domain.ManifestRecord, res *ports.PageResult) (domain.FetchOutcome, error) {
	now := e.clock.Now().UTC()

	if res.NotModified {
		rec := prev
		rec.FetchedAt = now
		rec.Status = domain.RecordNotModified
		if res.ETag != "" {
			rec.ETag = res.ETag
		}
		if res.LastModified != "" {
			rec.LastModified = res.LastModified
		}
		if err := e.manifest.Put(ctx, url, rec); err != nil {
			return domain.FetchOutcome{}, err
		}
		return domain.FetchOutcome{
			URL:         url,
			Succeeded:   true,
			Status:      domain.StatusNotModified,
			ContentHash: prev.ContentHash,
			LocalPath:   prev.LocalPath,
			FetchedAt:   now,
		}, nil
	}

	hash := domain.ContentHash(res.Body)
	meta := ports.PageMetadata{
		SourceURL:   url,
		FetchedAt:   now.Format(time.RFC3339),
		HTTPStatus:  res.HTTPStatus,
		Headers:     res.Headers,
		ContentHash: hash,
	}

	path, err := e.cache.Put(ctx, asOf, url, res.Body, meta)
	if err != nil {
		return domain.FetchOutcome{}, err
	}

	rec := domain.ManifestRecord{
		ETag:         res.ETag,
		LastModified: res.LastModified,
		ContentHash:  hash,
		FetchedAt:    now,
		LocalPath:    path,
		Status:       domain.RecordFresh,
	}
	if err := e.manifest.Put(ctx, url, rec); err != nil {
		return domain.FetchOutcome{}, err
	}

	return domain.FetchOutcome{
		URL:         url,
		Succeeded:   true,
		Status:      domain.StatusFetched,
		ContentHash: hash,
		LocalPath:   path,
		FetchedAt:   now,
	}, nil
}

// recordFailure marks the URL failed in the manifest while preserving the
// previous validators, hash and path, so a later run can still revalidate.
func (e *Engine) recordFailure(ctx context.Context, url string, prev domain.ManifestRecord, hasPrev bool) {
	rec := domain.ManifestRecord{Status: domain.RecordFailed}
	if hasPrev {
		rec = prev
		rec.Status = domain.RecordFailed
	}
	if err := e.manifest.Put(ctx, url, rec); err != nil {
		e.logger.Warn(fmt.Sprintf("could not record failure for %s: %v", url, err))
	}
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-e.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// writeReport persists the per-run report next to the manifest. Re-running
// the same as-of replaces the report in place, so it goes through the same
// temp-file-plus-rename discipline as every other replaced document.
func (e *Engine) writeReport(report *domain.BatchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	dir := e.settings.ManifestsDir()
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "report-*.tmp")
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

	return os.Rename(tmpName, domain.FetchReportPath(dir, report.AsOf))
}

// HasFailuresErr converts a report with error outcomes into the sentinel the
// CLI maps to a non-zero exit code.
func HasFailuresErr(report *domain.BatchReport) error {
	if report == nil || !report.HasFailures() {
		return nil
	}
	fetched, notModified, errored := report.Counts()
	err := zerr.With(domain.ErrFetchBatchHadFailures, "fetched", fetched)
	err = zerr.With(err, "not_modified", notModified)
	return zerr.With(err, "errors", errored)
}
