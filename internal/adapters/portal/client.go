// Package portal implements the HTTP page source for the cytrain portal.
package portal

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxBodyBytes caps a single page read. The portal pages are well under a
// megabyte; anything larger indicates a broken response.
const maxBodyBytes = 16 << 20

// Client implements ports.PageSource over net/http with conditional GETs.
type Client struct {
	httpClient *http.Client
	settings   domain.Settings
	retryable  map[int]bool
}

// NewClient creates a page source using the given settings.
func NewClient(settings domain.Settings) *Client {
	retryable := make(map[int]bool, len(settings.RetryableStatuses))
	for _, code := range settings.RetryableStatuses {
		retryable[code] = true
	}
	return &Client{
		httpClient: &http.Client{Timeout: settings.RequestTimeout},
		settings:   settings,
		retryable:  retryable,
	}
}

// Fetch issues one conditional GET and classifies the answer. It never
// retries; the fetch engine owns the retry loop.
func (c *Client) Fetch(ctx context.Context, url string, cond domain.Validators) (*ports.PageResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrPermanentRequest, err), "url", url)
	}

	req.Header.Set("User-Agent", c.settings.UserAgent)
	req.Header.Set("Accept-Language", c.settings.AcceptLanguage)
	if cond.ETag != "" {
		req.Header.Set("If-None-Match", cond.ETag)
	}
	if cond.LastModified != "" {
		req.Header.Set("If-Modified-Since", cond.LastModified)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return &ports.PageResult{
			NotModified:  true,
			HTTPStatus:   resp.StatusCode,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Headers:      selectHeaders(resp.Header),
		}, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Read one byte past the cap so an oversized page is detected
		// instead of silently cached as a truncated document.
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrFetchRequestFailed, err), "url", url)
		}
		if len(body) > maxBodyBytes {
			return nil, zerr.With(zerr.With(domain.ErrPermanentRequest, "url", url), "body_limit", maxBodyBytes)
		}
		return &ports.PageResult{
			Body:         body,
			HTTPStatus:   resp.StatusCode,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Headers:      selectHeaders(resp.Header),
		}, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		hint := &domain.RateLimitHint{
			Err:        zerr.With(zerr.With(domain.ErrRateLimited, "status", resp.StatusCode), "url", url),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		return nil, hint

	case c.retryable[resp.StatusCode]:
		return nil, zerr.With(zerr.With(domain.ErrRetryableStatus, "status", resp.StatusCode), "url", url)

	default:
		return nil, zerr.With(zerr.With(domain.ErrPermanentStatus, "status", resp.StatusCode), "url", url)
	}
}

// classifyTransportError separates errors worth retrying (timeouts, refused
// or reset connections) from those that cannot succeed (bad host names,
// malformed URLs, caller cancellation).
func classifyTransportError(url string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout && !dnsErr.IsTemporary {
		return zerr.With(errors.Join(domain.ErrPermanentRequest, err), "url", url)
	}

	return zerr.With(errors.Join(domain.ErrFetchRequestFailed, err), "url", url)
}

// parseRetryAfter reads a Retry-After header value in either delta-seconds
// or HTTP-date form. Unparseable values yield zero, leaving the backoff
// schedule in charge.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// selectHeaders keeps the response headers worth persisting in the sidecar.
func selectHeaders(h http.Header) map[string]string {
	keep := []string{"Content-Type", "ETag", "Last-Modified", "Date"}
	out := make(map[string]string, len(keep))
	for _, key := range keep {
		if v := h.Get(key); v != "" {
			out[strings.ToLower(key)] = v
		}
	}
	return out
}
