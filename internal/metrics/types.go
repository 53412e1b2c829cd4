package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sync outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomeBusy    = "already_running"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SyncRuns           *prometheus.CounterVec
	SyncDuration       prometheus.Histogram
	RowsUpserted       *prometheus.CounterVec
	LastSyncTimestamp  prometheus.Gauge
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations prometheus.Counter
	CacheSize          prometheus.Gauge
	QueryDuration      *prometheus.HistogramVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
