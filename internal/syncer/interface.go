package syncer

import (
	"context"

	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// Store defines the database operations required by the engine.
type Store interface {
	ApplyBatch(ctx context.Context, batch tennis.Batch) (tennis.Counts, error)
	RecordSyncRun(ctx context.Context, run tennis.SyncRun) error
	LastSuccessfulSync(ctx context.Context) (*tennis.SyncRun, error)
}

// Invalidator drops cached query results after new data is committed.
type Invalidator interface {
	InvalidateAll()
}

// Notifier reports sync outcomes to humans.
type Notifier interface {
	SendSyncReport(ctx context.Context, run tennis.SyncRun) error
}
