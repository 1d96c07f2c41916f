// Package callsite provides mutable dispatch slots that cache linked
// invocations.
//
// A CallSite holds exactly one current target, installed atomically and read
// on every invocation. A ChainedCallSite adds a bounded chain cache: each
// relink folds the cached GuardedInvocations (newest tested first) into a
// single target whose innermost fallback re-enters the linker.
//
// # Relinking
//
// Relinking is optimistic and lock-free. Every relink snapshots the chain,
// filters out entries whose switch points have been invalidated, evicts the
// oldest entry when a new one does not fit, folds the result, and stores it.
// Concurrent relinks do not coordinate: the last store wins and the other
// result is discarded.
//
// # Usage
//
//	site, err := callsite.NewChainedCallSite(
//	    callsite.Descriptor{Operation: "GET:PROPERTY", Name: "length", Arity: 1},
//	    callsite.WithMaxChainLength(4),
//	)
//	if err != nil {
//	    return err
//	}
//	// relink is supplied by the linker; it is called on a total cache miss.
//	target := site.Relink(ctx, inv, relink)
//	result, err := site.Invoke(ctx, obj)
package callsite
