package handlers

import (
	"context"

	"github.com/mauv0809/tennis-oracle/internal/cache"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// QueryResolver answers statistical queries.
type QueryResolver interface {
	Resolve(ctx context.Context, q resolver.Query) (resolver.Result, error)
	CacheStats() cache.Stats
}

// SyncEngine is the part of the sync engine exposed over HTTP.
type SyncEngine interface {
	ForceSync(ctx context.Context) syncer.Result
	StartSync(trigger string) syncer.Result
	Status() syncer.Status
}

// SyncRequester hands a sync off to the workflow runner.
type SyncRequester interface {
	RequestSync(ctx context.Context, requestedBy string) error
}

// SyncHistory lists persisted sync runs.
type SyncHistory interface {
	RecentSyncRuns(ctx context.Context, limit int) ([]tennis.SyncRun, error)
}

// Invalidator drops cached query results.
type Invalidator interface {
	InvalidateAll()
}
