package invocation

import (
	"context"
	"errors"
)

// ErrorHandler handles an error caught by CatchError. It receives the
// original arguments and decides what the caller sees.
type ErrorHandler func(ctx context.Context, err error, args ...any) (any, error)

// GuardWithTest returns a target that runs target when guard accepts the
// arguments and fallback otherwise.
func GuardWithTest(guard Guard, target, fallback Target) Target {
	return func(ctx context.Context, args ...any) (any, error) {
		if guard(args...) {
			return target(ctx, args...)
		}
		return fallback(ctx, args...)
	}
}

// CatchError returns a target that passes errors matching tag to handler.
// Other errors and successful results pass through unchanged.
func CatchError(target Target, tag error, handler ErrorHandler) Target {
	return func(ctx context.Context, args ...any) (any, error) {
		result, err := target(ctx, args...)
		if err != nil && errors.Is(err, tag) {
			return handler(ctx, err, args...)
		}
		return result, err
	}
}

// GuardWithSwitchPoints returns a target that runs target while every switch
// point is valid, and fallback once any has been invalidated.
func GuardWithSwitchPoints(points []*SwitchPoint, target, fallback Target) Target {
	points = append([]*SwitchPoint(nil), points...)
	return func(ctx context.Context, args ...any) (any, error) {
		if anyInvalidated(points) {
			return fallback(ctx, args...)
		}
		return target(ctx, args...)
	}
}

// Constant returns a target that always yields v.
func Constant(v any) Target {
	return func(context.Context, ...any) (any, error) {
		return v, nil
	}
}

// Always is a guard that accepts every argument list.
func Always(...any) bool { return true }
