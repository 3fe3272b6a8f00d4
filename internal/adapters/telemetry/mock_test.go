package telemetry_test

import (
	"context"
	"sync"
	"time"

	"github.com/lexindex/bnss/internal/core/domain"
)

// mockRenderer is a simple test double for ports.Renderer.
type mockRenderer struct {
	mu            sync.Mutex
	planCalls     int
	startCalls    int
	logCalls      int
	completeCalls int
	logs          [][]byte
	statuses      []domain.FetchStatus
}

func (m *mockRenderer) Start(_ context.Context) error { return nil }
func (m *mockRenderer) Stop() error                   { return nil }
func (m *mockRenderer) Wait() error                   { return nil }

func (m *mockRenderer) OnPlanEmit(_ []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planCalls++
}

func (m *mockRenderer) OnFetchStart(_, _ string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
}

func (m *mockRenderer) OnFetchLog(_ string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCalls++
	m.logs = append(m.logs, data)
}

func (m *mockRenderer) OnFetchComplete(_ string, _ time.Time, status domain.FetchStatus, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	m.statuses = append(m.statuses, status)
}
