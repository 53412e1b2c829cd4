package tennis

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	ApplyBatchFunc         func(ctx context.Context, batch Batch) (Counts, error)
	RecordSyncRunFunc      func(ctx context.Context, run SyncRun) error
	LastSuccessfulSyncFunc func(ctx context.Context) (*SyncRun, error)
	RecentSyncRunsFunc     func(ctx context.Context, limit int) ([]SyncRun, error)
	CountsFunc             func(ctx context.Context) (Counts, error)
	FinalMatchFunc         func(ctx context.Context, tournament string, season int) (*Match, error)
	HeadToHeadFunc         func(ctx context.Context, playerA, playerB string) (*HeadToHead, error)
	CareerStatsFunc        func(ctx context.Context, player string) (*CareerStats, error)
	GrandSlamFinalsFunc    func(ctx context.Context, season int, tour Tour) ([]Match, error)
	MostWinsFunc           func(ctx context.Context, limit int) ([]PlayerWins, error)
	TopRankedFunc          func(ctx context.Context, tour Tour, limit int) ([]Ranking, error)

	// Call records
	ApplyBatchCalls    []Batch
	RecordSyncRunCalls []SyncRun
	ReadCalls          int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyBatchCalls = nil
	m.RecordSyncRunCalls = nil
	m.ReadCalls = 0
}

// Reads returns how many read queries have been issued.
func (m *MockStore) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadCalls
}

func (m *MockStore) read() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
}

func (m *MockStore) ApplyBatch(ctx context.Context, batch Batch) (Counts, error) {
	m.mu.Lock()
	m.ApplyBatchCalls = append(m.ApplyBatchCalls, batch)
	fn := m.ApplyBatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, batch)
	}
	return Counts{Rankings: len(batch.Rankings), Tournaments: len(batch.Tournaments), Matches: len(batch.Matches)}, nil
}

func (m *MockStore) RecordSyncRun(ctx context.Context, run SyncRun) error {
	m.mu.Lock()
	m.RecordSyncRunCalls = append(m.RecordSyncRunCalls, run)
	fn := m.RecordSyncRunFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, run)
	}
	return nil
}

func (m *MockStore) LastSuccessfulSync(ctx context.Context) (*SyncRun, error) {
	if m.LastSuccessfulSyncFunc != nil {
		return m.LastSuccessfulSyncFunc(ctx)
	}
	return nil, ErrNotFound
}

func (m *MockStore) RecentSyncRuns(ctx context.Context, limit int) ([]SyncRun, error) {
	if m.RecentSyncRunsFunc != nil {
		return m.RecentSyncRunsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) Counts(ctx context.Context) (Counts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return Counts{}, nil
}

func (m *MockStore) FinalMatch(ctx context.Context, tournament string, season int) (*Match, error) {
	m.read()
	if m.FinalMatchFunc != nil {
		return m.FinalMatchFunc(ctx, tournament, season)
	}
	return nil, ErrNotFound
}

func (m *MockStore) HeadToHead(ctx context.Context, playerA, playerB string) (*HeadToHead, error) {
	m.read()
	if m.HeadToHeadFunc != nil {
		return m.HeadToHeadFunc(ctx, playerA, playerB)
	}
	return nil, ErrNotFound
}

func (m *MockStore) CareerStats(ctx context.Context, player string) (*CareerStats, error) {
	m.read()
	if m.CareerStatsFunc != nil {
		return m.CareerStatsFunc(ctx, player)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GrandSlamFinals(ctx context.Context, season int, tour Tour) ([]Match, error) {
	m.read()
	if m.GrandSlamFinalsFunc != nil {
		return m.GrandSlamFinalsFunc(ctx, season, tour)
	}
	return nil, nil
}

func (m *MockStore) MostWins(ctx context.Context, limit int) ([]PlayerWins, error) {
	m.read()
	if m.MostWinsFunc != nil {
		return m.MostWinsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) TopRanked(ctx context.Context, tour Tour, limit int) ([]Ranking, error) {
	m.read()
	if m.TopRankedFunc != nil {
		return m.TopRankedFunc(ctx, tour, limit)
	}
	return nil, nil
}
