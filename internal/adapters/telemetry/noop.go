package telemetry

import (
	"context"

	"github.com/lexindex/bnss/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that records nothing. It is used where a
// tracer is required but telemetry is not wanted, such as unit tests.
type NoOpTracer struct{}

// NewNoOpTracer returns a tracer that discards everything.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns the context unchanged and a span that does nothing.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, &NoOpSpan{}
}

// EmitPlan does nothing.
func (t *NoOpTracer) EmitPlan(_ context.Context, _ []string) {}

// NoOpSpan is the span returned by NoOpTracer.
type NoOpSpan struct{}

// End does nothing.
func (s *NoOpSpan) End() {}

// RecordError does nothing.
func (s *NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (s *NoOpSpan) SetAttribute(_ string, _ any) {}

// Write discards the data.
func (s *NoOpSpan) Write(p []byte) (int, error) {
	return len(p), nil
}
