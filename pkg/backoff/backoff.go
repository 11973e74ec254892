// Package backoff provides the pure retry-eligibility and delay calculations
// used by the fetch orchestrator. Nothing here holds state or sleeps, which
// keeps backoff curves deterministic to test.
package backoff

import "time"

// DelayFunc computes the delay before re-running attempt number attempt.
// Attempts are zero-based: attempt 0 is the delay before the first retry.
type DelayFunc func(attempt int) time.Duration

// Exponential returns a DelayFunc that starts at base and doubles on every
// attempt, capped at limit.
func Exponential(base, limit time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		d := base
		for i := 0; i < attempt; i++ {
			d *= 2
			if d >= limit {
				return limit
			}
		}
		if d > limit {
			return limit
		}
		return d
	}
}

// Default is the standard curve: 1s, 2s, 4s, ... capped at 30s.
var Default = Exponential(time.Second, 30*time.Second)

// Policy decides whether a failed attempt should be retried and how long to
// wait before the next one. The zero value never retries.
type Policy struct {
	AutoRetry  bool
	MaxRetries int
	Delay      DelayFunc
}

// ShouldRetry reports whether another attempt may follow, given the number of
// retries already performed.
func (p Policy) ShouldRetry(attempt int) bool {
	return p.AutoRetry && attempt < p.MaxRetries
}

// DelayFor returns the delay before the next attempt, falling back to Default
// when no Delay is configured.
func (p Policy) DelayFor(attempt int) time.Duration {
	if p.Delay != nil {
		return p.Delay(attempt)
	}
	return Default(attempt)
}
