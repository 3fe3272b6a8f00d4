package telemetry

import (
	"context"
	"errors"

	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// statusAttrKey is the span attribute the fetch engine sets on completion.
const statusAttrKey = "fetch.status"

// Bridge implements sdktrace.SpanProcessor to bridge OTel spans to a Renderer.
// Fetch spans are named after their URL, so the renderer can label output.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.renderer.OnFetchStart(
		sc.SpanID().String(),
		s.Name(),
		s.StartTime(),
	)
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	status := domain.StatusFetched
	for _, kv := range s.Attributes() {
		if string(kv.Key) == statusAttrKey {
			status = domain.FetchStatus(kv.Value.AsString())
		}
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "fetch failed"
		}
		err = errors.New(desc)
		status = domain.StatusError
	}

	b.renderer.OnFetchComplete(
		sc.SpanID().String(),
		s.EndTime(),
		status,
		err,
	)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
