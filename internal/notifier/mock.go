package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendSyncReportFunc            func(ctx context.Context, run tennis.SyncRun) error
	FormatQueryResponseFunc       func(result resolver.Result) (any, error)
	FormatNoDataResponseFunc      func(query string) (any, error)
	FormatErrorResponseFunc       func(message string) (any, error)
	FormatSyncStatusResponseFunc  func(status syncer.Status) (any, error)
	FormatSyncStartedResponseFunc func(result syncer.Result) (any, error)

	// Call records
	SendSyncReportCalls       []tennis.SyncRun
	FormatQueryResponseCalls  []resolver.Result
	FormatNoDataResponseCalls []string
	FormatErrorResponseCalls  []string
	FormatSyncStatusCalls     []syncer.Status
	FormatSyncStartedCalls    []syncer.Result
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSyncReportCalls = nil
	m.FormatQueryResponseCalls = nil
	m.FormatNoDataResponseCalls = nil
	m.FormatErrorResponseCalls = nil
	m.FormatSyncStatusCalls = nil
	m.FormatSyncStartedCalls = nil
}

// Reports returns a copy of the sync runs reported so far.
func (m *Mock) Reports() []tennis.SyncRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tennis.SyncRun(nil), m.SendSyncReportCalls...)
}

func (m *Mock) SendSyncReport(ctx context.Context, run tennis.SyncRun) error {
	m.mu.Lock()
	m.SendSyncReportCalls = append(m.SendSyncReportCalls, run)
	fn := m.SendSyncReportFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, run)
	}
	return nil
}

func (m *Mock) FormatQueryResponse(result resolver.Result) (any, error) {
	m.mu.Lock()
	m.FormatQueryResponseCalls = append(m.FormatQueryResponseCalls, result)
	fn := m.FormatQueryResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(result)
	}
	return nil, nil
}

func (m *Mock) FormatNoDataResponse(query string) (any, error) {
	m.mu.Lock()
	m.FormatNoDataResponseCalls = append(m.FormatNoDataResponseCalls, query)
	fn := m.FormatNoDataResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(query)
	}
	return nil, nil
}

func (m *Mock) FormatErrorResponse(message string) (any, error) {
	m.mu.Lock()
	m.FormatErrorResponseCalls = append(m.FormatErrorResponseCalls, message)
	fn := m.FormatErrorResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(message)
	}
	return nil, nil
}

func (m *Mock) FormatSyncStatusResponse(status syncer.Status) (any, error) {
	m.mu.Lock()
	m.FormatSyncStatusCalls = append(m.FormatSyncStatusCalls, status)
	fn := m.FormatSyncStatusResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(status)
	}
	return nil, nil
}

func (m *Mock) FormatSyncStartedResponse(result syncer.Result) (any, error) {
	m.mu.Lock()
	m.FormatSyncStartedCalls = append(m.FormatSyncStartedCalls, result)
	fn := m.FormatSyncStartedResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(result)
	}
	return nil, nil
}
