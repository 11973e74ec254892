package fetchflow

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Watcher is the invocation trigger: it re-invokes its orchestrator whenever
// the host's dependency sequence changes under shallow positional comparison,
// and once on first attach in non-manual mode. It holds no fetch state of its
// own; hosts wire Update into whatever re-evaluation mechanism they have.
type Watcher[T any] struct {
	orch   *Orchestrator[T]
	logger zerolog.Logger

	mu       sync.Mutex
	deps     []any
	attached bool
}

// NewWatcher creates a trigger for the given orchestrator.
func NewWatcher[T any](orch *Orchestrator[T], logger zerolog.Logger) *Watcher[T] {
	return &Watcher[T]{
		orch:   orch,
		logger: logger.With().Str("component", "Watcher").Str("instance_id", orch.ID()).Logger(),
	}
}

// Update supplies the current dependency sequence and reports whether a new
// invocation was triggered. The first Update attaches the watcher; in
// non-manual mode that alone triggers an invocation. Afterwards an invocation
// is triggered only when the sequence changed: length differs, or any element
// compares unequal at the same position. Manual mode never auto-invokes.
//
// Triggered invocations run in their own goroutine; hosts observe the outcome
// through orchestrator state or a subscription.
func (w *Watcher[T]) Update(ctx context.Context, deps []any) bool {
	w.mu.Lock()
	first := !w.attached
	changed := !first && !depsEqual(w.deps, deps)
	w.attached = true
	w.deps = append([]any(nil), deps...)
	w.mu.Unlock()

	if w.orch.cfg.Manual {
		return false
	}
	if !first && !changed {
		return false
	}

	if first {
		w.logger.Debug().Msg("Watcher attached, triggering initial invocation.")
	} else {
		w.logger.Debug().Msg("Dependency change detected, triggering invocation.")
	}
	go func() {
		if _, err := w.orch.Invoke(ctx); err != nil {
			w.logger.Debug().Err(err).Msg("Triggered invocation finished with error.")
		}
	}()
	return true
}

// depsEqual is the shallow positional comparison used by effect dependency
// lists. Elements must be comparable values; pointers compare by identity.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
