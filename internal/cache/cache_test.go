package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPut(t *testing.T) {
	c := New(10, 60)

	_, ok := c.Get("winner|wimbledon|2019")
	assert.False(t, ok)

	put := c.Put("winner|wimbledon|2019", "Novak Djokovic")
	assert.False(t, put.ComputedAt.IsZero())

	e, ok := c.Get("winner|wimbledon|2019")
	require.True(t, ok)
	assert.Equal(t, "Novak Djokovic", e.Payload)
	assert.Equal(t, int64(1), e.HitCount)
	assert.Equal(t, put.ComputedAt, e.ComputedAt)

	e, _ = c.Get("winner|wimbledon|2019")
	assert.Equal(t, int64(2), e.HitCount)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, []string{"winner|wimbledon|2019"}, stats.Keys)
	assert.Equal(t, 10, stats.MaxEntries)
	assert.Equal(t, 60, stats.TTLSeconds)
}

func TestPutReplaces(t *testing.T) {
	c := New(10, 60)
	c.Put("k", 1)
	c.Get("k")
	c.Put("k", 2)

	e, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, e.Payload)
	assert.Equal(t, int64(1), e.HitCount, "a replaced entry starts counting again")
	assert.Equal(t, 1, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := New(2, 0)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestTTLExpiry(t *testing.T) {
	c := newCache(10, 20*time.Millisecond)
	c.Put("k", "v")

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateAll(t *testing.T) {
	c := New(10, 60)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	require.Equal(t, 2, c.Stats().Size)

	c.InvalidateAll()

	stats := c.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Empty(t, stats.Keys)
	assert.Equal(t, uint64(1), stats.Hits, "counters survive invalidation")
	assert.Equal(t, uint64(1), stats.Invalidations)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestPutIfGeneration(t *testing.T) {
	c := New(10, 60)

	gen := c.Generation()
	_, ok := c.PutIfGeneration("a", 1, gen)
	assert.True(t, ok)

	stale := c.Generation()
	c.InvalidateAll()
	assert.Equal(t, stale+1, c.Generation())

	e, ok := c.PutIfGeneration("b", 2, stale)
	assert.False(t, ok)
	assert.Equal(t, 2, e.Payload)
	assert.Equal(t, 0, c.Len())

	_, ok = c.PutIfGeneration("b", 2, c.Generation())
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestDisabledCache(t *testing.T) {
	c := New(0, 60)
	c.Put("k", "v")

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
	c.InvalidateAll()
}

func TestConcurrentAccess(t *testing.T) {
	c := New(50, 60)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%20)
				if _, ok := c.Get(key); !ok {
					c.Put(key, worker)
				}
				if j%50 == 0 {
					c.InvalidateAll()
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.Size, 20)
	assert.Equal(t, uint64(8*200), stats.Hits+stats.Misses)
}
