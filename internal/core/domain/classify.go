package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RateLimitHint wraps a rate-limit error with the server-provided
// retry-after duration so the retry policy can honor it.
type RateLimitHint struct {
	Err        error
	RetryAfter time.Duration
}

// Error implements the error interface.
func (h *RateLimitHint) Error() string {
	return fmt.Sprintf("%v (retry-after %s)", h.Err, h.RetryAfter)
}

// Unwrap exposes the wrapped error for errors.Is chains.
func (h *RateLimitHint) Unwrap() error {
	return h.Err
}

// ClassifyError maps a fetch error onto a retry failure class and extracts a
// retry-after hint when one is carried. Cancellation is always permanent:
// a caller that gave up must not be kept waiting by the retry loop.
func ClassifyError(err error) (FailureClass, time.Duration) {
	switch {
	case err == nil:
		return FailurePermanent, 0
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return FailurePermanent, 0
	case errors.Is(err, ErrRateLimited):
		var hint *RateLimitHint
		if errors.As(err, &hint) {
			return FailureRateLimited, hint.RetryAfter
		}
		return FailureRateLimited, 0
	case errors.Is(err, ErrRetryableStatus), errors.Is(err, ErrFetchRequestFailed):
		return FailureTransient, 0
	default:
		return FailurePermanent, 0
	}
}
