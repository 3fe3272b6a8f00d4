package domain

import (
	"math"
	"math/rand/v2"
	"time"
)

// FailureClass classifies a failed fetch attempt for the retry policy.
type FailureClass string

const (
	// FailureTransient covers connection errors, timeouts and retryable
	// status codes. Retried with backoff.
	FailureTransient FailureClass = "transient-network"
	// FailureRateLimited covers 429-style answers. Retried with backoff,
	// honoring a server-provided retry-after hint when present.
	FailureRateLimited FailureClass = "rate-limited"
	// FailurePermanent covers everything that retrying cannot fix: other
	// 4xx answers, bad URLs, malformed responses, cancellation.
	FailurePermanent FailureClass = "permanent"
)

// Decision is the outcome of one retry policy consultation.
type Decision struct {
	Retry bool
	Delay time.Duration
}

// RetryPolicy decides whether and how long to wait before the next fetch
// attempt. Decide is a pure function of its inputs apart from jitter, which
// is drawn from Rand so tests can pin it.
type RetryPolicy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      time.Duration

	// Rand returns a float in [0, 1) used to scale Jitter. Defaults to
	// the global source when nil.
	Rand func() float64
}

// Decide consults the policy after a failed attempt. attempt is 1-based and
// counts the attempt that just failed. retryAfter is the server-provided
// hint for rate-limited failures, zero when absent.
func (p RetryPolicy) Decide(attempt int, class FailureClass, retryAfter time.Duration) Decision {
	if class == FailurePermanent {
		return Decision{}
	}
	if attempt >= p.MaxAttempts {
		return Decision{}
	}

	delay := p.backoff(attempt)
	if class == FailureRateLimited && retryAfter > delay {
		delay = retryAfter
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return Decision{Retry: true, Delay: delay + p.jitter()}
}

// backoff computes min * multiplier^(attempt-1) clamped to [min, max].
func (p RetryPolicy) backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}

	d := float64(p.MinDelay) * math.Pow(mult, float64(attempt-1))
	if d > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	if d < float64(p.MinDelay) {
		return p.MinDelay
	}
	return time.Duration(d)
}

func (p RetryPolicy) jitter() time.Duration {
	if p.Jitter <= 0 {
		return 0
	}
	r := p.Rand
	if r == nil {
		r = rand.Float64
	}
	return time.Duration(r() * float64(p.Jitter))
}
