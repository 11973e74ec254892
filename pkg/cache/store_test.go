package cache_test

import (
	"testing"
	"time"

	"github.com/illmade-knight/go-fetchflow/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock so TTL behavior can be tested
// without real sleeps.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestStore_TTLExpiry(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	store := cache.NewStore[string](cache.WithClock(clk))
	const ttl = time.Second

	store.Set("u1", "john")

	t.Run("readable within the expiry window", func(t *testing.T) {
		value, ok := store.Get("u1", ttl)
		require.True(t, ok)
		assert.Equal(t, "john", value)
	})

	t.Run("still readable exactly at the window boundary", func(t *testing.T) {
		clk.Advance(ttl)
		value, ok := store.Get("u1", ttl)
		require.True(t, ok)
		assert.Equal(t, "john", value)
	})

	t.Run("absent and proactively evicted once expired", func(t *testing.T) {
		clk.Advance(100 * time.Millisecond)
		_, ok := store.Get("u1", ttl)
		require.False(t, ok)
		assert.Equal(t, 0, store.Len(), "expired entry should be removed on read")
	})
}

func TestStore_LastWriterWins(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	store := cache.NewStore[string](cache.WithClock(clk))
	const ttl = time.Second

	store.Set("u1", "first")
	clk.Advance(900 * time.Millisecond)

	// Overwriting refreshes the timestamp as well as the value.
	store.Set("u1", "second")
	clk.Advance(900 * time.Millisecond)

	value, ok := store.Get("u1", ttl)
	require.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestStore_Invalidate(t *testing.T) {
	store := cache.NewStore[int]()

	store.Set("k", 42)
	store.Invalidate("k")

	_, ok := store.Get("k", time.Minute)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())

	// Invalidating an absent key is a no-op.
	store.Invalidate("missing")
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	store := cache.NewStore[string]()

	value, ok := store.Get("never-set", time.Minute)
	assert.False(t, ok)
	assert.Zero(t, value)
}

func TestStore_Stats(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	store := cache.NewStore[string](cache.WithClock(clk))

	store.Set("a", "v")
	_, _ = store.Get("a", time.Second) // hit
	_, _ = store.Get("b", time.Second) // miss
	clk.Advance(2 * time.Second)
	_, _ = store.Get("a", time.Second) // expired: eviction + miss

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(1), stats.Evictions)
}
