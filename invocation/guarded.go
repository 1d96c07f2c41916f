package invocation

import (
	"context"
	"errors"
)

// Target is an invocation target: a callable unit with a fixed signature.
// A returned error plays the role of a thrown exception.
type Target func(ctx context.Context, args ...any) (any, error)

// Guard reports whether a cached target applies to the given arguments.
type Guard func(args ...any) bool

// GuardedInvocation is an immutable pairing of a target with the guard that
// selects it, plus optional invalidation metadata.
type GuardedInvocation struct {
	target       Target
	guard        Guard
	switchPoints []*SwitchPoint
	exception    error
}

// Option configures a GuardedInvocation at construction.
type Option func(*GuardedInvocation) error

// WithSwitchPoints attaches invalidation tokens. The invocation is considered
// invalidated once any of them is.
func WithSwitchPoints(points ...*SwitchPoint) Option {
	return func(gi *GuardedInvocation) error {
		for _, sp := range points {
			if sp == nil {
				return ErrNilSwitchPoint
			}
		}
		gi.switchPoints = append(gi.switchPoints, points...)
		return nil
	}
}

// WithException tags the invocation with an error. A dispatch error matching
// the tag (errors.Is) marks the entry for removal.
func WithException(tag error) Option {
	return func(gi *GuardedInvocation) error {
		gi.exception = tag
		return nil
	}
}

// New creates a GuardedInvocation. Target and guard are required.
func New(target Target, guard Guard, opts ...Option) (*GuardedInvocation, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if guard == nil {
		return nil, ErrNilGuard
	}

	gi := &GuardedInvocation{
		target: target,
		guard:  guard,
	}
	for _, opt := range opts {
		if err := opt(gi); err != nil {
			return nil, err
		}
	}
	return gi, nil
}

// Target returns the invocation target.
func (gi *GuardedInvocation) Target() Target {
	return gi.target
}

// Guard returns the guard predicate.
func (gi *GuardedInvocation) Guard() Guard {
	return gi.guard
}

// SwitchPoints returns a copy of the attached switch points.
func (gi *GuardedInvocation) SwitchPoints() []*SwitchPoint {
	if len(gi.switchPoints) == 0 {
		return nil
	}
	out := make([]*SwitchPoint, len(gi.switchPoints))
	copy(out, gi.switchPoints)
	return out
}

// Exception returns the exception tag, or nil.
func (gi *GuardedInvocation) Exception() error {
	return gi.exception
}

// HasException reports whether an exception tag is set.
func (gi *GuardedInvocation) HasException() bool {
	return gi.exception != nil
}

// HasBeenInvalidated reports whether any attached switch point is invalidated.
func (gi *GuardedInvocation) HasBeenInvalidated() bool {
	return anyInvalidated(gi.switchPoints)
}

// MatchesException reports whether err matches the exception tag.
func (gi *GuardedInvocation) MatchesException(err error) bool {
	return gi.exception != nil && err != nil && errors.Is(err, gi.exception)
}

// ReplaceTarget returns a copy with a different target.
func (gi *GuardedInvocation) ReplaceTarget(target Target) (*GuardedInvocation, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	out := *gi
	out.target = target
	out.switchPoints = gi.SwitchPoints()
	return &out, nil
}

// AddSwitchPoints returns a copy carrying the extra switch points.
func (gi *GuardedInvocation) AddSwitchPoints(points ...*SwitchPoint) (*GuardedInvocation, error) {
	out := *gi
	out.switchPoints = gi.SwitchPoints()
	if err := WithSwitchPoints(points...)(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compose folds the invocation into a single target.
//
// The switch points are checked first; once any is invalidated every call is
// routed to switchPointFallback. Otherwise the guard decides between the
// target and fallback. An error from the target that matches the exception
// tag is handed to catchFallback. A nil switchPointFallback or catchFallback
// disables the corresponding wrapper.
func (gi *GuardedInvocation) Compose(fallback, switchPointFallback Target, catchFallback ErrorHandler) Target {
	target := gi.target
	if gi.exception != nil && catchFallback != nil {
		target = CatchError(target, gi.exception, catchFallback)
	}

	composed := GuardWithTest(gi.guard, target, fallback)

	if len(gi.switchPoints) > 0 && switchPointFallback != nil {
		composed = GuardWithSwitchPoints(gi.switchPoints, composed, switchPointFallback)
	}
	return composed
}
