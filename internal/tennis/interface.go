package tennis

import "context"

// Store defines the interface for reading and writing canonical tennis data.
type Store interface {
	// ApplyBatch upserts one tour's rankings, tournaments and matches in a single
	// transaction. On error nothing from the batch is visible.
	ApplyBatch(ctx context.Context, batch Batch) (Counts, error)
	RecordSyncRun(ctx context.Context, run SyncRun) error
	LastSuccessfulSync(ctx context.Context) (*SyncRun, error)
	RecentSyncRuns(ctx context.Context, limit int) ([]SyncRun, error)
	Counts(ctx context.Context) (Counts, error)

	FinalMatch(ctx context.Context, tournament string, season int) (*Match, error)
	HeadToHead(ctx context.Context, playerA, playerB string) (*HeadToHead, error)
	CareerStats(ctx context.Context, player string) (*CareerStats, error)
	GrandSlamFinals(ctx context.Context, season int, tour Tour) ([]Match, error)
	MostWins(ctx context.Context, limit int) ([]PlayerWins, error)
	TopRanked(ctx context.Context, tour Tour, limit int) ([]Ranking, error)
}
