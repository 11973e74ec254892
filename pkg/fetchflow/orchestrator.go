// Package fetchflow orchestrates a single logical asynchronous fetch: it
// tracks lifecycle state, memoizes results in an injected TTL store, retries
// failed attempts with configurable backoff, and re-invokes when a watched
// dependency sequence changes. The host supplies the operation and renders the
// state; the package performs no I/O of its own.
package fetchflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-fetchflow/pkg/backoff"
)

// Orchestrator drives the lifecycle of one logical fetch. All exported methods
// are safe for concurrent use; overlapping invocations resolve
// last-started-wins via a generation guard.
type Orchestrator[T any] struct {
	id     string
	cfg    Config[T]
	op     Operation[T]
	policy backoff.Policy
	logger zerolog.Logger

	mu      sync.Mutex
	status  Status
	data    *T
	err     error
	attempt int
	fetched bool
	gen     uint64
	subs    map[int]chan Snapshot[T]
	nextSub int
}

// New creates an orchestrator for the given operation. The configuration is
// validated and defaulted here; it cannot change afterwards.
func New[T any](cfg Config[T], op Operation[T], logger zerolog.Logger) (*Orchestrator[T], error) {
	if op == nil {
		return nil, fmt.Errorf("operation cannot be nil")
	}
	if cfg.Cache != nil && cfg.CacheKey == "" {
		return nil, fmt.Errorf("cache key is required when a cache store is configured")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	id := uuid.NewString()
	o := &Orchestrator[T]{
		id:  id,
		cfg: cfg,
		op:  op,
		policy: backoff.Policy{
			AutoRetry:  cfg.AutoRetry,
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.RetryDelay,
		},
		logger: logger.With().Str("component", "Orchestrator").Str("instance_id", id).Logger(),
		status: StatusIdle,
		data:   cfg.InitialData,
		subs:   make(map[int]chan Snapshot[T]),
	}
	if !cfg.Manual {
		// An automatic invocation is expected immediately after construction
		// (watcher attach), so observers never see a transient Idle.
		o.status = StatusLoading
	}
	return o, nil
}

// ID returns the orchestrator's unique instance identifier.
func (o *Orchestrator[T]) ID() string {
	return o.id
}

// Invoke runs one fetch through the full lifecycle: cache consultation,
// optional start delay, the operation itself, and automatic retries. It
// returns the fetched or cached value; the final operation error once retries
// are exhausted or disabled; or ErrSuperseded when a newer invocation or a
// Reset overtook this one.
//
// Invoke itself has no side effects beyond orchestrator and cache state, so
// hosts may wire it into any re-evaluation mechanism they like.
func (o *Orchestrator[T]) Invoke(ctx context.Context) (T, error) {
	var zero T

	o.mu.Lock()
	o.gen++
	gen := o.gen
	o.status = StatusLoading
	o.notifyLocked()

	if o.cfg.Cache != nil {
		if value, ok := o.cfg.Cache.Get(o.cfg.CacheKey, o.cfg.CacheTTL); ok {
			// Cache hit: skip the operation entirely. No delay, no retry
			// bookkeeping; the invocation settles immediately.
			o.data = &value
			o.fetched = true
			o.status = StatusSuccess
			o.notifyLocked()
			o.mu.Unlock()

			o.logger.Debug().Str("cache_key", o.cfg.CacheKey).Msg("Cache hit, operation skipped.")
			if o.cfg.OnSuccess != nil {
				o.cfg.OnSuccess(value)
			}
			return value, nil
		}
		o.logger.Debug().Str("cache_key", o.cfg.CacheKey).Msg("Cache miss.")
	}
	o.mu.Unlock()

	if o.cfg.StartDelay > 0 {
		if err := sleep(ctx, o.cfg.StartDelay); err != nil {
			return zero, o.commitAborted(gen, err)
		}
	}

	for attempt := 0; ; attempt++ {
		if !o.isCurrent(gen) {
			return zero, ErrSuperseded
		}

		result, err := o.op(ctx)
		if err == nil {
			if !o.commitSuccess(gen, result) {
				return zero, ErrSuperseded
			}
			return result, nil
		}

		retrying := o.policy.ShouldRetry(attempt)
		if !o.commitFailure(gen, err, retrying) {
			return zero, ErrSuperseded
		}
		if !retrying {
			return zero, err
		}

		delay := o.policy.DelayFor(attempt)
		o.logger.Debug().Int("attempt", attempt).Dur("delay", delay).Err(err).
			Msg("Attempt failed, retrying after backoff.")
		if serr := sleep(ctx, delay); serr != nil {
			return zero, o.commitAborted(gen, serr)
		}
	}
}

// Refetch triggers a new invocation with the same semantics as the automatic
// trigger.
func (o *Orchestrator[T]) Refetch(ctx context.Context) (T, error) {
	return o.Invoke(ctx)
}

// SetData imperatively overwrites the current data. A non-nil value forces the
// Success state and writes through to the cache store when one is configured.
// The recorded error and retry counter are left untouched.
func (o *Orchestrator[T]) SetData(value *T) {
	o.mu.Lock()
	o.data = value
	if value != nil {
		o.status = StatusSuccess
		if o.cfg.Cache != nil {
			o.cfg.Cache.Set(o.cfg.CacheKey, *value)
		}
	}
	o.notifyLocked()
	o.mu.Unlock()
}

// Reset restores the configured initial data, clears the error and retry
// bookkeeping, and returns to Idle. It does not cancel an in-flight
// invocation, but the generation bump guarantees a late resolution cannot
// re-populate state. Reset is idempotent.
func (o *Orchestrator[T]) Reset() {
	o.mu.Lock()
	o.gen++
	o.data = o.cfg.InitialData
	o.err = nil
	o.attempt = 0
	o.fetched = false
	o.status = StatusIdle
	o.notifyLocked()
	o.mu.Unlock()
}

// Snapshot returns a consistent point-in-time view of the orchestrator state.
func (o *Orchestrator[T]) Snapshot() Snapshot[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Data returns the last known successful value, or the initial data before
// any settle. It is never cleared by a new invocation.
func (o *Orchestrator[T]) Data() *T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data
}

// Status returns the current lifecycle state.
func (o *Orchestrator[T]) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Loading reports whether an invocation is currently in flight.
func (o *Orchestrator[T]) Loading() bool {
	return o.Status() == StatusLoading
}

// Err returns the most recent failure. It is cleared only by Reset.
func (o *Orchestrator[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// IsFetched reports whether at least one invocation has settled, successfully
// or with retries exhausted.
func (o *Orchestrator[T]) IsFetched() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fetched
}

// commitSuccess applies a successful attempt's result, unless the attempt has
// been superseded. Reports whether the result was applied.
func (o *Orchestrator[T]) commitSuccess(gen uint64, result T) bool {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		o.logger.Debug().Uint64("generation", gen).Msg("Discarding stale successful attempt.")
		return false
	}
	o.data = &result
	o.fetched = true
	o.attempt = 0
	o.status = StatusSuccess
	if o.cfg.Cache != nil {
		o.cfg.Cache.Set(o.cfg.CacheKey, result)
	}
	o.notifyLocked()
	o.mu.Unlock()

	if o.cfg.OnSuccess != nil {
		o.cfg.OnSuccess(result)
	}
	return true
}

// commitFailure records a failed attempt, unless the attempt has been
// superseded. When a retry will follow, status stays Loading: intermediate
// failures are observable through Err and OnError but never flicker the
// status to Error. Reports whether the failure was applied.
func (o *Orchestrator[T]) commitFailure(gen uint64, opErr error, willRetry bool) bool {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		o.logger.Debug().Uint64("generation", gen).Msg("Discarding stale failed attempt.")
		return false
	}
	o.err = opErr
	o.fetched = true
	if willRetry {
		o.attempt++
	} else {
		o.status = StatusError
	}
	o.notifyLocked()
	o.mu.Unlock()

	if !willRetry {
		o.logger.Error().Err(opErr).Msg("Fetch failed, retries exhausted or disabled.")
	}
	if o.cfg.OnError != nil {
		o.cfg.OnError(opErr)
	}
	return true
}

// commitAborted records a cancellation during a suspension point as a terminal
// failure and returns the error the caller should surface.
func (o *Orchestrator[T]) commitAborted(gen uint64, err error) error {
	if !o.commitFailure(gen, err, false) {
		return ErrSuperseded
	}
	return err
}

func (o *Orchestrator[T]) isCurrent(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return gen == o.gen
}

func (o *Orchestrator[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Status:  o.status,
		Loading: o.status == StatusLoading,
		Data:    o.data,
		Err:     o.err,
		Fetched: o.fetched,
		Attempt: o.attempt,
	}
}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
