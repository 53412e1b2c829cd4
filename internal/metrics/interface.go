package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSyncRuns(outcome string)
	ObserveSyncDuration(seconds float64)
	AddRowsUpserted(entity string, n int)
	SetLastSyncTimestamp(unixSeconds float64)
	IncCacheHit()
	IncCacheMiss()
	IncCacheInvalidations()
	SetCacheSize(size int)
	ObserveQueryDuration(kind string, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// UsageStore persists simple named counters across restarts.
type UsageStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
