package ports

import (
	"context"
	"io"
)

// SpanConfig holds options applied when starting a span.
// Currently empty; kept so SpanOption can grow without breaking callers.
type SpanConfig struct{}

// SpanOption configures a span at start time.
type SpanOption func(*SpanConfig)

// Tracer abstracts span creation so the fetch engine stays decoupled from
// the telemetry backend.
type Tracer interface {
	// Start begins a new span as a child of the span in ctx (if any).
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// EmitPlan announces the set of URLs a batch is about to fetch.
	EmitPlan(ctx context.Context, urls []string)
}

// Span is a unit of traced work. It doubles as an io.Writer so progress
// notes can be attached to the span as log events.
type Span interface {
	io.Writer

	// End completes the span.
	End()

	// RecordError records an error on the span and marks it failed.
	RecordError(err error)

	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}
