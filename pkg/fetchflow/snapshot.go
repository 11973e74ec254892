package fetchflow

// Snapshot is a point-in-time view of orchestrator state, safe to retain after
// the orchestrator has moved on.
type Snapshot[T any] struct {
	// Status is the lifecycle state at capture time.
	Status Status
	// Loading is a derived view: true iff Status == StatusLoading.
	Loading bool
	// Data is the last known successful value (cached, fetched, or set
	// imperatively), or the configured initial data before any settle.
	Data *T
	// Err is the most recent failure. It is cleared only by Reset.
	Err error
	// Fetched is true once at least one invocation has settled.
	Fetched bool
	// Attempt is the number of retries performed for the invocation currently
	// in flight; it is zeroed by a successful attempt.
	Attempt int
}
