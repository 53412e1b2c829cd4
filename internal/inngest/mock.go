package inngest

import (
	"context"
	"net/http"
	"sync"
)

// Mock is a mock implementation of the InngestClient interface for testing.
type Mock struct {
	mu sync.Mutex

	RequestSyncFunc  func(ctx context.Context, requestedBy string) error
	RequestSyncCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Serve() http.Handler {
	return http.NotFoundHandler()
}

func (m *Mock) RequestSync(ctx context.Context, requestedBy string) error {
	m.mu.Lock()
	m.RequestSyncCalls = append(m.RequestSyncCalls, requestedBy)
	fn := m.RequestSyncFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, requestedBy)
	}
	return nil
}

// Requests returns a copy of the recorded RequestSync calls.
func (m *Mock) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.RequestSyncCalls...)
}
