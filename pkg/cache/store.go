// cache/store.go
package cache

import (
	"sync"
	"time"
)

// entry is the internal record for one cached result.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a generic, thread-safe, keyed store of computed results with
// per-entry timestamps. The expiry window is supplied by the caller on every
// read rather than fixed at write time, because orchestrators sharing one
// store may carry different TTLs for the same key.
//
// Stores are explicitly constructed and injected; sharing scope (one store per
// orchestrator, per subsystem, or process-wide) is the caller's choice.
type Store[V any] struct {
	mu    sync.Mutex
	data  map[string]entry[V]
	clock Clock
	stats Stats
}

// Option configures a Store.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock sets a custom clock for time operations.
// Useful for testing TTL behavior.
func WithClock(clk Clock) Option {
	return func(o *options) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// NewStore creates an empty store. By default it reads time.Now().
func NewStore[V any](opts ...Option) *Store[V] {
	o := options{clock: realClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		data:  make(map[string]entry[V]),
		clock: o.clock,
	}
}

// Get retrieves the value for key if it was stored no longer than ttl ago.
// An entry older than ttl is treated as absent and proactively removed.
func (s *Store[V]) Get(key string, ttl time.Duration) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	ent, ok := s.data[key]
	if !ok {
		s.stats.Misses++
		return zero, false
	}
	if s.clock.Now().Sub(ent.storedAt) > ttl {
		delete(s.data, key)
		s.stats.Evictions++
		s.stats.Misses++
		return zero, false
	}
	s.stats.Hits++
	return ent.value, true
}

// Set stores value under key, unconditionally overwriting any previous entry.
// The entry's timestamp is refreshed to the current clock reading.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry[V]{value: value, storedAt: s.clock.Now()}
}

// Invalidate removes the entry for key, if any.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len returns the number of entries currently held, expired or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Stats returns a copy of the cumulative store counters.
func (s *Store[V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
