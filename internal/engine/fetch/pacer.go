package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Pacer enforces a minimum delay between consecutive network attempts,
// shared by every fetch in the process. Retries and first attempts draw
// from the same schedule, so the portal never sees requests closer
// together than the configured delay.
type Pacer struct {
	clock    clockwork.Clock
	minDelay time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewPacer creates a pacer with the given minimum inter-request delay.
func NewPacer(clock clockwork.Clock, minDelay time.Duration) *Pacer {
	return &Pacer{clock: clock, minDelay: minDelay}
}

// Wait blocks until the caller may start its network attempt. Each call
// reserves the next slot in the schedule before sleeping, so concurrent
// callers line up instead of racing for the same slot.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.minDelay <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.clock.Now()
	at := p.next
	if at.Before(now) {
		at = now
	}
	p.next = at.Add(p.minDelay)
	p.mu.Unlock()

	delay := at.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-p.clock.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
