package fetchflow

import (
	"context"
	"time"

	"github.com/illmade-knight/go-fetchflow/pkg/backoff"
	"github.com/illmade-knight/go-fetchflow/pkg/cache"
)

const (
	// DefaultCacheTTL bounds cached-result reads when Config.CacheTTL is unset.
	DefaultCacheTTL = 5 * time.Minute
	// DefaultMaxRetries applies when Config.MaxRetries is unset.
	DefaultMaxRetries = 3
)

// Operation is the host-supplied asynchronous unit of work. The orchestrator
// never performs I/O itself; it only runs the operation, zero or more times,
// and tracks the outcome. The operation's own timeout (via ctx) is the only
// bound on how long an attempt may remain suspended.
type Operation[T any] func(ctx context.Context) (T, error)

// Config holds the immutable per-orchestrator configuration. It is copied at
// construction; later mutation by the caller has no effect.
type Config[T any] struct {
	// Manual disables automatic invocation: the orchestrator starts Idle and
	// only an explicit Refetch (or Invoke) runs the operation.
	Manual bool

	// InitialData seeds Data before any attempt settles, and is what Reset
	// restores.
	InitialData *T

	// OnSuccess is called with the settled value after every successful
	// invocation, including cache hits. Optional.
	OnSuccess func(T)
	// OnError is called with every attempt's failure, including intermediate
	// attempts that will be retried. Optional.
	OnError func(error)

	// StartDelay suspends an invocation for this long before the operation
	// runs. A cache hit skips the delay entirely.
	StartDelay time.Duration

	// Cache enables memoization when non-nil. Results are read and written
	// under CacheKey, which is required when Cache is set. Orchestrators
	// sharing a store and a key observe each other's writes.
	Cache    *cache.Store[T]
	CacheKey string
	// CacheTTL is the expiry window applied to cache reads.
	// Defaults to DefaultCacheTTL.
	CacheTTL time.Duration

	// AutoRetry re-runs failed attempts up to MaxRetries times, waiting
	// RetryDelay between attempts. RetryDelay defaults to backoff.Default.
	AutoRetry  bool
	MaxRetries int
	RetryDelay backoff.DelayFunc
}
