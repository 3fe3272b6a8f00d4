package ports

import (
	"context"
	"time"

	"github.com/lexindex/bnss/internal/core/domain"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive interactive or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// Asynchronous renderers may launch background goroutines here.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare
	// for shutdown. It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnPlanEmit is called when a batch has been planned.
	// urls: all URLs in fetch order.
	OnPlanEmit(urls []string)

	// OnFetchStart is called when one URL begins fetching.
	// spanID: unique identifier for this fetch
	// url: the page being fetched
	// startTime: when the fetch started
	OnFetchStart(spanID, url string, startTime time.Time)

	// OnFetchLog is called when a fetch emits progress output.
	// data may contain partial lines.
	OnFetchLog(spanID string, data []byte)

	// OnFetchComplete is called when one URL finishes.
	// status: the terminal outcome (fetched, not-modified, error)
	// err: nil unless status is an error outcome
	OnFetchComplete(spanID string, endTime time.Time, status domain.FetchStatus, err error)
}
