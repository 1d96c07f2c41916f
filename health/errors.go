package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not registered.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrUnlinkedCallSite indicates a call site has no target installed.
	ErrUnlinkedCallSite = errors.New("health: call site not linked")
)
