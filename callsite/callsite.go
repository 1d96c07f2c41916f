package callsite

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonwraymond/dynlink/invocation"
)

// State is the lifecycle state of a call site.
type State int

const (
	// StateUninitialized means no target has been installed yet.
	StateUninitialized State = iota
	// StateLinked means a target is installed.
	StateLinked
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLinked:
		return "linked"
	default:
		return "unknown"
	}
}

// CallSite is a dispatch slot holding one current target.
//
// Contract:
// - Concurrency: safe for concurrent use; Invoke never takes a lock.
// - Visibility: Invoke observes some fully installed target, never a partial one.
// - Errors: target errors pass through unchanged.
type CallSite struct {
	desc   Descriptor
	target atomic.Pointer[invocation.Target]
}

// NewCallSite creates an uninitialized call site.
func NewCallSite(desc Descriptor) *CallSite {
	return &CallSite{desc: desc}
}

// Descriptor returns the call site's signature metadata.
func (cs *CallSite) Descriptor() Descriptor {
	return cs.desc
}

// Initialize installs the first target. It can succeed only once.
func (cs *CallSite) Initialize(target invocation.Target) error {
	if target == nil {
		return ErrNilTarget
	}
	if !cs.target.CompareAndSwap(nil, &target) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Target returns the installed target, or nil before Initialize.
func (cs *CallSite) Target() invocation.Target {
	if t := cs.target.Load(); t != nil {
		return *t
	}
	return nil
}

// SetTarget installs target, replacing the current one. A nil target is ignored
// so an initialized site never reverts to having none.
func (cs *CallSite) SetTarget(target invocation.Target) {
	if target == nil {
		return
	}
	cs.target.Store(&target)
}

// State reports whether a target has been installed.
func (cs *CallSite) State() State {
	if cs.target.Load() == nil {
		return StateUninitialized
	}
	return StateLinked
}

// Invoke calls the current target with args.
func (cs *CallSite) Invoke(ctx context.Context, args ...any) (any, error) {
	t := cs.target.Load()
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrUninitialized, cs.desc)
	}
	if !cs.desc.accepts(len(args)) {
		return nil, fmt.Errorf("%w: %s called with %d", ErrArityMismatch, cs.desc, len(args))
	}
	return (*t)(ctx, args...)
}
