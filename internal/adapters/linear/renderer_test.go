package linear

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lexindex/bnss/internal/core/domain"
)

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	return NewRenderer(stdout, stderr), stdout, stderr
}

func TestRenderer_Lifecycle(t *testing.T) {
	r, stdout, stderr := newTestRenderer(t)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	r.OnPlanEmit([]string{"https://example.com/pages/IndexBNSS.html"})
	r.OnFetchStart("span-1", "https://example.com/pages/IndexBNSS.html", time.Now())
	r.OnFetchLog("span-1", []byte("attempt 1/5 failed (transient), retrying in 1s\n"))
	r.OnFetchComplete("span-1", time.Now(), domain.StatusFetched, nil)

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	errOut := stderr.String()
	if !strings.Contains(errOut, "Fetching 1 page(s)") {
		t.Errorf("stderr missing plan line, got:\n%s", errOut)
	}
	if !strings.Contains(errOut, "[IndexBNSS.html] Fetching https://example.com/pages/IndexBNSS.html") {
		t.Errorf("stderr missing start line, got:\n%s", errOut)
	}
	if !strings.Contains(errOut, "✓ Fetched in") {
		t.Errorf("stderr missing completion line, got:\n%s", errOut)
	}

	out := stdout.String()
	if !strings.Contains(out, "[IndexBNSS.html] attempt 1/5 failed (transient), retrying in 1s") {
		t.Errorf("stdout missing log line, got:\n%s", out)
	}
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	r.OnFetchStart("span-1", "https://example.com/a.html", time.Now())
	r.OnFetchLog("span-1", []byte("partial "))
	r.OnFetchLog("span-1", []byte("line\nnext"))

	out := stdout.String()
	if !strings.Contains(out, "[a.html] partial line") {
		t.Errorf("stdout missing joined line, got:\n%s", out)
	}
	if strings.Contains(out, "next") {
		t.Errorf("incomplete line printed early, got:\n%s", out)
	}

	// Completion flushes the remainder.
	r.OnFetchComplete("span-1", time.Now(), domain.StatusFetched, nil)

	out = stdout.String()
	if !strings.Contains(out, "[a.html] next") {
		t.Errorf("stdout missing flushed partial line, got:\n%s", out)
	}
}

func TestRenderer_FetchError(t *testing.T) {
	r, _, stderr := newTestRenderer(t)

	r.OnFetchStart("span-1", "https://example.com/a.html", time.Now())
	r.OnFetchComplete("span-1", time.Now(), domain.StatusError, errors.New("connection refused"))

	errOut := stderr.String()
	if !strings.Contains(errOut, "✗ Failed after") {
		t.Errorf("stderr missing failure line, got:\n%s", errOut)
	}
	if !strings.Contains(errOut, "connection refused") {
		t.Errorf("stderr missing error detail, got:\n%s", errOut)
	}
}

func TestRenderer_NotModified(t *testing.T) {
	r, _, stderr := newTestRenderer(t)

	r.OnFetchStart("span-1", "https://example.com/a.html", time.Now())
	r.OnFetchComplete("span-1", time.Now(), domain.StatusNotModified, nil)

	errOut := stderr.String()
	if !strings.Contains(errOut, "≡ Not modified") {
		t.Errorf("stderr missing not-modified line, got:\n%s", errOut)
	}
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newTestRenderer(t)

	startLen := stderr.Len()

	// Events for an unknown span must be silently ignored.
	r.OnFetchLog("missing", []byte("data\n"))
	r.OnFetchComplete("missing", time.Now(), domain.StatusFetched, nil)

	if stdout.Len() != 0 {
		t.Errorf("stdout not empty: %q", stdout.String())
	}
	if stderr.Len() != startLen {
		t.Errorf("stderr grew: %q", stderr.String())
	}
}

func TestRenderer_EmptyLines(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	r.OnFetchStart("span-1", "https://example.com/a.html", time.Now())
	r.OnFetchLog("span-1", []byte("\n\r\n"))

	if stdout.Len() != 0 {
		t.Errorf("empty lines printed: %q", stdout.String())
	}
}

func TestRenderer_StopFlushesBuffers(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	r.OnFetchStart("span-1", "https://example.com/a.html", time.Now())
	r.OnFetchLog("span-1", []byte("unterminated"))

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "[a.html] unterminated") {
		t.Errorf("Stop did not flush buffer, got:\n%s", out)
	}
}

func TestRenderer_ConcurrentFetches(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	var wg sync.WaitGroup
	urls := []string{
		"https://example.com/one.html",
		"https://example.com/two.html",
		"https://example.com/three.html",
	}

	for i, u := range urls {
		wg.Add(1)
		go func(spanID, pageURL string) {
			defer wg.Done()
			r.OnFetchStart(spanID, pageURL, time.Now())
			r.OnFetchLog(spanID, []byte("working\n"))
			r.OnFetchComplete(spanID, time.Now(), domain.StatusFetched, nil)
		}(string(rune('a'+i)), u)
	}

	wg.Wait()

	out := stdout.String()
	for _, label := range []string{"one.html", "two.html", "three.html"} {
		if !strings.Contains(out, "["+label+"] working") {
			t.Errorf("stdout missing log for %s, got:\n%s", label, out)
		}
	}
}

func TestRenderer_Wait(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	if err := r.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestRenderer_NilWriters(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	r := NewRenderer(nil, nil)
	if r.stdout == nil || r.stderr == nil {
		t.Fatal("nil writers not defaulted")
	}
}

func TestPageLabel(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/staticpage/web_pages/IndexBNSS.html", "IndexBNSS.html"},
		{"https://example.com/", "example.com"},
		{"https://example.com", "example.com"},
		{"://bad url", "://bad url"},
	}

	for _, tc := range cases {
		if got := pageLabel(tc.url); got != tc.want {
			t.Errorf("pageLabel(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
