// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"sync"
	"time"

	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/ui/output"
	"github.com/lexindex/bnss/internal/ui/style"
	"github.com/muesli/termenv"
)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs linear, chronological logs with page-label prefixes.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	fetches map[string]*fetchState // spanID -> fetch state
	buffers map[string]*bytes.Buffer
}

type fetchState struct {
	label     string
	startTime time.Time
}

// NewRenderer creates a new linear Renderer.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, output.ColorProfileANSI),
		fetches: make(map[string]*fetchState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned batch size.
func (r *Renderer) OnPlanEmit(urls []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Fetching %d page(s)\n", len(urls))
}

// OnFetchStart prints a fetch start message.
func (r *Renderer) OnFetchStart(spanID, pageURL string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := pageLabel(pageURL)
	r.fetches[spanID] = &fetchState{
		label:     label,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	prefix := r.output.String(fmt.Sprintf("[%s]", label)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Fetching %s\n", prefix, pageURL)
}

// OnFetchLog buffers log data and prints complete lines with the page prefix.
func (r *Renderer) OnFetchLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fetch, ok := r.fetches[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	// Process complete lines
	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(fetch.label, line)
	}
}

// OnFetchComplete flushes the remaining buffer and prints the outcome.
func (r *Renderer) OnFetchComplete(spanID string, endTime time.Time, status domain.FetchStatus, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fetch, ok := r.fetches[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(fetch.startTime)
	prefix := fmt.Sprintf("[%s]", fetch.label)

	switch {
	case err != nil:
		symbol := r.output.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, symbol, duration, err)
	case status == domain.StatusNotModified:
		symbol := r.output.String("≡").Faint().String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Not modified (checked in %v)\n",
			prefix, symbol, duration)
	default:
		symbol := r.output.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Fetched in %v\n",
			prefix, symbol, duration)
	}

	// Cleanup
	delete(r.fetches, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked flushes any remaining data in the buffer for a fetch.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	fetch, ok := r.fetches[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(fetch.label, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the page label prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(label string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	prefix := fmt.Sprintf("[%s]", label)
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, string(line))
}

// pageLabel derives a short display label from a page URL: the final path
// segment, or the host when the path is empty.
func pageLabel(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
		return base
	}
	if u.Host != "" {
		return u.Host
	}
	return pageURL
}
