package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tennis_sync_runs_total",
			Help: "The total number of sync attempts by outcome.",
		}, []string{"outcome"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tennis_sync_duration_seconds",
			Help:    "The duration of completed sync runs.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RowsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tennis_sync_rows_upserted_total",
			Help: "The total number of records upserted by entity.",
		}, []string{"entity"}),
		LastSyncTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tennis_last_successful_sync_timestamp_seconds",
			Help: "Unix time of the last successful sync.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_query_cache_hits_total",
			Help: "The total number of resolver queries served from cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_query_cache_misses_total",
			Help: "The total number of resolver queries computed from the store.",
		}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_query_cache_invalidations_total",
			Help: "The total number of full cache invalidations.",
		}),
		CacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tennis_query_cache_entries",
			Help: "The number of live entries in the query cache.",
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tennis_query_duration_seconds",
			Help:    "The duration of resolver queries by kind.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tennis_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SyncRuns,
		s.SyncDuration,
		s.RowsUpserted,
		s.LastSyncTimestamp,
		s.CacheHits,
		s.CacheMisses,
		s.CacheInvalidations,
		s.CacheSize,
		s.QueryDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSyncRuns(outcome string) {
	s.SyncRuns.WithLabelValues(outcome).Inc()
}

func (s *Service) ObserveSyncDuration(seconds float64) {
	s.SyncDuration.Observe(seconds)
}

func (s *Service) AddRowsUpserted(entity string, n int) {
	if n > 0 {
		s.RowsUpserted.WithLabelValues(entity).Add(float64(n))
	}
}

func (s *Service) SetLastSyncTimestamp(unixSeconds float64) {
	s.LastSyncTimestamp.Set(unixSeconds)
}

func (s *Service) IncCacheHit() {
	s.CacheHits.Inc()
}

func (s *Service) IncCacheMiss() {
	s.CacheMisses.Inc()
}

func (s *Service) IncCacheInvalidations() {
	s.CacheInvalidations.Inc()
}

func (s *Service) SetCacheSize(size int) {
	s.CacheSize.Set(float64(size))
}

func (s *Service) ObserveQueryDuration(kind string, seconds float64) {
	s.QueryDuration.WithLabelValues(kind).Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
