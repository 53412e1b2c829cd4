package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncSyncRuns(OutcomeSuccess)
	s.IncSyncRuns(OutcomeSuccess)
	s.IncSyncRuns(OutcomeFailed)
	s.AddRowsUpserted("matches", 12)
	s.AddRowsUpserted("matches", 0)
	s.IncCacheHit()
	s.SetCacheSize(7)
	s.ObserveQueryDuration("head_to_head", 0.002)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.SyncRuns.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SyncRuns.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 12.0, testutil.ToFloat64(s.RowsUpserted.WithLabelValues("matches")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.CacheHits))
	assert.Equal(t, 7.0, testutil.ToFloat64(s.CacheSize))

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tennis_sync_runs_total")
	assert.Contains(t, string(body), `tennis_query_duration_seconds_count{kind="head_to_head"} 1`)
}
