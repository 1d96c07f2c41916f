package invocation

import "errors"

// Sentinel errors for invocation construction.
var (
	// ErrNilTarget is returned when a GuardedInvocation has no target.
	ErrNilTarget = errors.New("invocation: target is nil")

	// ErrNilGuard is returned when a GuardedInvocation has no guard.
	ErrNilGuard = errors.New("invocation: guard is nil")

	// ErrNilSwitchPoint is returned when a nil SwitchPoint is supplied.
	ErrNilSwitchPoint = errors.New("invocation: switch point is nil")
)
