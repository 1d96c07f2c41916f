// Package invocation provides the value types that a call site caches.
//
// A GuardedInvocation pairs an invocation Target with the Guard that decides
// whether the target applies to a given set of arguments. It may also carry
// SwitchPoints that external code invalidates when the assumptions behind the
// invocation no longer hold, and an exception tag naming an error that, when
// returned by the target, marks the entry as stale.
//
// The composition helpers (GuardWithTest, CatchError, GuardWithSwitchPoints)
// fold these pieces into plain Targets. They never introspect targets; they
// only wrap and call them.
package invocation
