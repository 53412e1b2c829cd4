package provider

import "context"

// Client defines the interface for fetching snapshots from the sports-data provider.
// This allows for mock implementations to be used in tests.
type Client interface {
	IsConfigured() bool
	GetRankings(ctx context.Context, tour string) ([]RankingSnapshot, error)
	GetTournaments(ctx context.Context, tour string, season int) ([]TournamentSnapshot, error)
}
