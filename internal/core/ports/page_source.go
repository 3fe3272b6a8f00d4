package ports

import (
	"context"

	"github.com/lexindex/bnss/internal/core/domain"
)

// PageResult is the classified answer of one portal request.
type PageResult struct {
	// NotModified is true when the portal confirmed the cached copy via 304.
	NotModified bool

	// Body is the page bytes; empty for NotModified results.
	Body []byte

	HTTPStatus   int
	ETag         string
	LastModified string

	// Headers holds a normalized (lower-cased key) copy of selected
	// response headers for the metadata sidecar.
	Headers map[string]string
}

// PageSource issues one conditional GET against the portal. Errors wrap the
// domain sentinels (ErrRetryableStatus, ErrRateLimited, ErrPermanentStatus,
// ErrFetchRequestFailed) so the fetch engine can classify them with
// domain.ClassifyError; rate-limit errors carry the server's retry-after
// hint via domain.RateLimitHint when one was present.
//
//go:generate mockgen -source=page_source.go -destination=mocks/mock_page_source.go -package=mocks
type PageSource interface {
	Fetch(ctx context.Context, url string, cond domain.Validators) (*PageResult, error)
}
