package provider

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	mu sync.Mutex

	Configured         bool
	GetRankingsFunc    func(ctx context.Context, tour string) ([]RankingSnapshot, error)
	GetTournamentsFunc func(ctx context.Context, tour string, season int) ([]TournamentSnapshot, error)

	// Call records
	GetRankingsCalls    []string
	GetTournamentsCalls []struct {
		Tour   string
		Season int
	}
}

// NewMock creates a configured mock client that returns no data.
func NewMock() *MockClient {
	return &MockClient{Configured: true}
}

func (m *MockClient) IsConfigured() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Configured
}

func (m *MockClient) GetRankings(ctx context.Context, tour string) ([]RankingSnapshot, error) {
	m.mu.Lock()
	m.GetRankingsCalls = append(m.GetRankingsCalls, tour)
	fn := m.GetRankingsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, tour)
	}
	return nil, nil
}

func (m *MockClient) GetTournaments(ctx context.Context, tour string, season int) ([]TournamentSnapshot, error) {
	m.mu.Lock()
	m.GetTournamentsCalls = append(m.GetTournamentsCalls, struct {
		Tour   string
		Season int
	}{tour, season})
	fn := m.GetTournamentsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, tour, season)
	}
	return nil, nil
}

// RankingsCallCount returns how many times GetRankings was called.
func (m *MockClient) RankingsCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetRankingsCalls)
}
