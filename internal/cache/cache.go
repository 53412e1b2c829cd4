package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Entry is a cached query result.
type Entry struct {
	Fingerprint string
	Payload     any
	ComputedAt  time.Time
	HitCount    int64
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Size          int      `json:"size"`
	Keys          []string `json:"keys"`
	Hits          uint64   `json:"hits"`
	Misses        uint64   `json:"misses"`
	Invalidations uint64   `json:"invalidations"`
	MaxEntries    int      `json:"max_entries"`
	TTLSeconds    int      `json:"ttl_seconds"`
}

// Cache is a size-bounded LRU of query results with a TTL. It is safe for
// concurrent use. A cache with maxEntries <= 0 stores nothing.
type Cache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *Entry]

	maxEntries int
	ttl        time.Duration

	hits          uint64
	misses        uint64
	invalidations uint64
	generation    uint64
}

// New creates a cache holding at most maxEntries results for ttlSeconds each.
// A ttlSeconds of zero disables expiry.
func New(maxEntries, ttlSeconds int) *Cache {
	c := newCache(maxEntries, time.Duration(ttlSeconds)*time.Second)
	log.Info("Query cache initialized", "max_entries", maxEntries, "ttl", c.ttl)
	return c
}

func newCache(maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
	}
	if maxEntries > 0 {
		c.lru = expirable.NewLRU[string, *Entry](maxEntries, nil, ttl)
	}
	return c
}

// Get returns the live entry for fingerprint and counts the hit.
func (c *Cache) Get(fingerprint string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru == nil {
		c.misses++
		return Entry{}, false
	}
	e, ok := c.lru.Get(fingerprint)
	if !ok {
		c.misses++
		return Entry{}, false
	}
	c.hits++
	e.HitCount++
	return *e, true
}

// Put stores payload under fingerprint, replacing any previous entry.
func (c *Cache) Put(fingerprint string, payload any) Entry {
	e := &Entry{Fingerprint: fingerprint, Payload: payload, ComputedAt: time.Now().UTC()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru != nil {
		c.lru.Add(fingerprint, e)
	}
	return *e
}

// Generation identifies the current invalidation epoch. Callers read it before
// computing a result and hand it back to PutIfGeneration.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// PutIfGeneration stores payload only if no InvalidateAll happened since gen
// was read. The returned entry is valid either way; ok reports whether it was stored.
func (c *Cache) PutIfGeneration(fingerprint string, payload any, gen uint64) (Entry, bool) {
	e := &Entry{Fingerprint: fingerprint, Payload: payload, ComputedAt: time.Now().UTC()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		log.Debug("Dropping result computed before invalidation", "fingerprint", fingerprint)
		return *e, false
	}
	if c.lru != nil {
		c.lru.Add(fingerprint, e)
	}
	return *e, c.lru != nil
}

// InvalidateAll drops every entry and starts a new generation. Hit and miss
// counters are kept.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := 0
	if c.lru != nil {
		size = len(c.lru.Keys())
		c.lru.Purge()
	}
	c.invalidations++
	c.generation++
	log.Info("Query cache invalidated", "dropped", size)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru == nil {
		return 0
	}
	// Keys skips expired entries that have not been reaped yet.
	return len(c.lru.Keys())
}

// Stats returns a snapshot of the cache counters and keys.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := []string{}
	if c.lru != nil {
		keys = append(keys, c.lru.Keys()...)
		sort.Strings(keys)
	}
	return Stats{
		Size:          len(keys),
		Keys:          keys,
		Hits:          c.hits,
		Misses:        c.misses,
		Invalidations: c.invalidations,
		MaxEntries:    c.maxEntries,
		TTLSeconds:    int(c.ttl / time.Second),
	}
}
