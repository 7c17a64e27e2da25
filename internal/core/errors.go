package core

import "errors"

// Error taxonomy. Callers classify with errors.Is; messages carry the
// operation detail via fmt.Errorf wrapping at the site of failure.
var (
	// ErrNotFound reports a referenced conversation or task that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreIO reports a durable-storage failure. Not locally recoverable.
	ErrStoreIO = errors.New("store I/O failure")

	// ErrAgentInvocation reports that the reasoning component was unreachable,
	// timed out, or returned malformed output.
	ErrAgentInvocation = errors.New("agent invocation failed")
)
