// Package telemetry bridges fetch spans to OpenTelemetry and streams their
// progress output to the renderer.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// Flush thresholds for span log streaming. Fetch progress lines are short,
// so small batches keep the renderer close to real time.
const (
	DefaultSizeLimit = 4096
	DefaultTimeLimit = 50 * time.Millisecond
)

// BatchProcessor coalesces span log writes and hands them to a callback once
// a size or time threshold is hit. Safe for concurrent writers.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer *bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewBatchProcessor starts a processor that flushes at sizeLimit bytes or
// every timeLimit, whichever comes first. Non-positive limits fall back to
// the defaults. Close stops the background flusher.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	bp := &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		buffer:    new(bytes.Buffer),
		stopCh:    make(chan struct{}),
	}

	bp.ticker = time.NewTicker(timeLimit)
	go bp.run()

	return bp
}

// Write buffers p, flushing once the buffer reaches the size limit.
func (bp *BatchProcessor) Write(p []byte) (n int, err error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, errors.New("BatchProcessor is closed")
	}

	n, err = bp.buffer.Write(p)
	if err != nil {
		return n, err
	}

	if bp.buffer.Len() >= bp.sizeLimit {
		bp.flushLocked()
		// A size-triggered flush restarts the timer; the next timed flush
		// should not fire immediately after it.
		bp.ticker.Reset(bp.timeLimit)
	}

	return n, nil
}

// Flush hands any buffered data to the callback now.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return
	}
	bp.flushLocked()
}

// Close stops the timed flusher and drains the buffer one last time.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}

	bp.closed = true
	close(bp.stopCh)
	bp.flushLocked()
	return nil
}

func (bp *BatchProcessor) run() {
	for {
		select {
		case <-bp.ticker.C:
			bp.Flush()
		case <-bp.stopCh:
			bp.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held. The callback runs under the lock
// so batches reach the renderer in write order; onFlush must not block.
func (bp *BatchProcessor) flushLocked() {
	if bp.buffer.Len() == 0 {
		return
	}

	data := make([]byte, bp.buffer.Len())
	copy(data, bp.buffer.Bytes())
	bp.buffer.Reset()

	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
