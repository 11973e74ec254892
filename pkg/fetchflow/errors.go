package fetchflow

import "errors"

// ErrSuperseded is returned from Invoke when a newer invocation or a Reset
// overtook this one while it was suspended. The stale attempt's outcome has
// been discarded and no state was written.
var ErrSuperseded = errors.New("fetchflow: invocation superseded")
