package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	syncRuns           map[string]int
	syncDurations      []float64
	rowsUpserted       map[string]int
	lastSyncTimestamp  float64
	cacheHits          int
	cacheMisses        int
	cacheInvalidations int
	cacheSize          int
	queryDurations     map[string]int
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		syncRuns:       make(map[string]int),
		syncDurations:  make([]float64, 0),
		rowsUpserted:   make(map[string]int),
		queryDurations: make(map[string]int),
	}
}

func (m *Mock) IncSyncRuns(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncRuns[outcome]++
}

func (m *Mock) ObserveSyncDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncDurations = append(m.syncDurations, seconds)
}

func (m *Mock) AddRowsUpserted(entity string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowsUpserted[entity] += n
}

func (m *Mock) SetLastSyncTimestamp(unixSeconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSyncTimestamp = unixSeconds
}

func (m *Mock) IncCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *Mock) IncCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *Mock) IncCacheInvalidations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheInvalidations++
}

func (m *Mock) SetCacheSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheSize = size
}

func (m *Mock) ObserveQueryDuration(kind string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryDurations[kind]++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SyncRuns returns how many sync attempts ended with outcome.
func (m *Mock) SyncRuns(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncRuns[outcome]
}

// RowsUpserted returns the accumulated upsert count for entity.
func (m *Mock) RowsUpserted(entity string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rowsUpserted[entity]
}

// CacheHits returns the number of times IncCacheHit was called.
func (m *Mock) CacheHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits
}

// CacheMisses returns the number of times IncCacheMiss was called.
func (m *Mock) CacheMisses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheMisses
}

// CacheInvalidations returns the number of times IncCacheInvalidations was called.
func (m *Mock) CacheInvalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheInvalidations
}

// CacheSize returns the last reported cache size.
func (m *Mock) CacheSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheSize
}

// Queries returns how many query durations were observed for kind.
func (m *Mock) Queries(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryDurations[kind]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// LastSyncTimestamp returns the last value passed to SetLastSyncTimestamp.
func (m *Mock) LastSyncTimestamp() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSyncTimestamp
}
