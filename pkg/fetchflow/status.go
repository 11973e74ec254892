package fetchflow

// Status is the lifecycle state of an orchestrator.
type Status int

const (
	// StatusIdle means no invocation has been requested yet (manual mode), or
	// the orchestrator has been reset.
	StatusIdle Status = iota
	// StatusLoading means an invocation is in flight, including the start
	// delay and any pending retry.
	StatusLoading
	// StatusSuccess means the most recent invocation settled with a value.
	StatusSuccess
	// StatusError means the most recent invocation failed with retries
	// exhausted or disabled.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
