// Package app implements the application layer for bnss.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lexindex/bnss/internal/adapters/linear"
	"github.com/lexindex/bnss/internal/adapters/telemetry"
	"github.com/lexindex/bnss/internal/adapters/validate"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"github.com/lexindex/bnss/internal/engine/fetch"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	logger   ports.Logger
	settings domain.Settings
	source   ports.PageSource
	cache    ports.CacheStore
	manifest ports.ManifestStore
	parser   ports.PageParser
	datasets ports.DatasetStore
	checker  *validate.Checker

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	log ports.Logger,
	settings domain.Settings,
	source ports.PageSource,
	cache ports.CacheStore,
	manifest ports.ManifestStore,
	parser ports.PageParser,
	datasets ports.DatasetStore,
	checker *validate.Checker,
) *App {
	return &App{
		logger:   log,
		settings: settings,
		source:   source,
		cache:    cache,
		manifest: manifest,
		parser:   parser,
		datasets: datasets,
		checker:  checker,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithOutput redirects the renderer and summaries to the given writers.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// FetchOptions configuration for the Fetch method.
type FetchOptions struct {
	// AsOf is the version label of the run. Empty means today (UTC).
	AsOf string
	// Source is the portal preset to fetch. Empty means "cytrain".
	Source string
}

// Fetch runs a conditional fetch of the source URLs and caches the bodies
// under the as-of version. Per-URL failures are rendered and folded into
// the returned error; they never abort the rest of the batch.
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	asOf := opts.AsOf
	if asOf == "" {
		asOf = domain.TodayAsOf(time.Now())
	}

	source := opts.Source
	if source == "" {
		source = "cytrain"
	}
	urls, err := a.settings.SeedURLs(source)
	if err != nil {
		return zerr.With(err, "source", source)
	}

	// The renderer shows per-URL progress; the OTel bridge feeds it from
	// the spans the engine opens.
	renderer := linear.NewRenderer(a.stdout, a.stderr)
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	tracer := telemetry.NewOTelTracer("bnss").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	engine := fetch.NewEngine(a.source, a.cache, a.manifest, tracer, a.logger, a.settings)

	var report *domain.BatchReport

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(a.stderr, "fetch panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		var err error
		report, err = engine.FetchMany(ctx, asOf, urls)
		if err != nil {
			return err
		}

		fetched, notModified, errored := report.Counts()
		a.logger.Info(fmt.Sprintf("fetch %s complete: %d fetched, %d not modified, %d failed",
			asOf, fetched, notModified, errored))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return fetch.HasFailuresErr(report)
}

// ETL parses the cached portal pages into the JSONL datasets. It requires a
// prior fetch: the manifest must hold a record with a cached body for every
// source URL.
func (a *App) ETL(ctx context.Context, asOf string) error {
	if asOf == "" {
		asOf = domain.TodayAsOf(time.Now())
	}
	if err := domain.ValidateAsOf(asOf); err != nil {
		return zerr.With(err, "as_of", asOf)
	}

	manifest, err := a.manifest.Load(ctx)
	if err != nil {
		return err
	}

	version := domain.VersionLabel(asOf)

	indexBody, indexMeta, err := a.loadPage(manifest, a.settings.SourceIndexURL, version)
	if err != nil {
		return err
	}
	tableBody, tableMeta, err := a.loadPage(manifest, a.settings.SourceTableURL, version)
	if err != nil {
		return err
	}

	sections, err := a.parser.ParseSections(indexBody, indexMeta)
	if err != nil {
		return errors.Join(domain.ErrEtlFailed, err)
	}
	rows, err := a.parser.ParseCrosswalk(tableBody, tableMeta)
	if err != nil {
		return errors.Join(domain.ErrEtlFailed, err)
	}

	sectionsPath, err := a.datasets.WriteSections(ctx, sections)
	if err != nil {
		return errors.Join(domain.ErrEtlFailed, err)
	}
	crosswalkPath, err := a.datasets.WriteCrosswalk(ctx, rows)
	if err != nil {
		return errors.Join(domain.ErrEtlFailed, err)
	}

	a.logger.Info(fmt.Sprintf("wrote %d section rows to %s", len(sections), sectionsPath))
	a.logger.Info(fmt.Sprintf("wrote %d crosswalk rows to %s", len(rows), crosswalkPath))
	return nil
}

// Validate runs the dataset checks and prints the report. A failing report
// maps to ErrValidationFailed, which the CLI turns into a non-zero exit.
func (a *App) Validate(ctx context.Context, asOf string) error {
	if asOf == "" {
		asOf = domain.TodayAsOf(time.Now())
	}

	report, err := a.checker.Run(ctx, asOf)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, report.Summary())
	return validate.FailedErr(report)
}

// All runs fetch, etl and validate in sequence under one as-of version.
func (a *App) All(ctx context.Context, opts FetchOptions) error {
	asOf := opts.AsOf
	if asOf == "" {
		asOf = domain.TodayAsOf(time.Now())
	}
	opts.AsOf = asOf

	if err := a.Fetch(ctx, opts); err != nil {
		return err
	}
	if err := a.ETL(ctx, asOf); err != nil {
		return err
	}
	return a.Validate(ctx, asOf)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Cache    bool
	Datasets bool
}

// Clean removes cached pages and derived datasets based on the provided
// options. The manifest goes with the cache: records without bodies would
// only produce 304 answers the engine cannot use.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Cache {
		remove(a.settings.RawDir(), "page cache")
		remove(a.settings.ManifestsDir(), "manifests")
	}

	if options.Datasets {
		remove(a.settings.DatasetsDir(), "datasets")
	}

	return errs
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	// Register a provider that reports every started span to the renderer.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

// loadPage resolves a source URL through the manifest and reads its cached
// body.
func (a *App) loadPage(manifest domain.Manifest, url, version string) ([]byte, domain.PageMeta, error) {
	rec, ok := manifest.Get(url)
	if !ok || rec.LocalPath == "" {
		return nil, domain.PageMeta{}, zerr.With(domain.ErrManifestEntryMissing, "url", url)
	}

	body, err := a.cache.Read(rec.LocalPath)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}

	meta := domain.PageMeta{
		SourceURL:   url,
		ContentHash: rec.ContentHash,
		Version:     version,
	}
	return body, meta, nil
}
