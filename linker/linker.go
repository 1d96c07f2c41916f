package linker

import (
	"context"

	"github.com/jonwraymond/dynlink/callsite"
	"github.com/jonwraymond/dynlink/invocation"
)

// Request describes a call that missed every cached guard.
type Request struct {
	Descriptor callsite.Descriptor
	Args       []any

	// Unstable reports that the site has relinked often enough that the
	// linker should prefer a more general invocation.
	Unstable bool
}

// GuardingLinker produces guarded invocations for call sites.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Result: (nil, nil) means this linker cannot link the request.
// - Errors: a returned error is propagated to the caller of the call site.
type GuardingLinker interface {
	GuardedInvocation(ctx context.Context, req Request) (*invocation.GuardedInvocation, error)
}

// LinkerFunc adapts a function to GuardingLinker.
type LinkerFunc func(ctx context.Context, req Request) (*invocation.GuardedInvocation, error)

// GuardedInvocation calls f.
func (f LinkerFunc) GuardedInvocation(ctx context.Context, req Request) (*invocation.GuardedInvocation, error) {
	return f(ctx, req)
}

// CompositeLinker tries linkers in order. The first non-nil invocation wins;
// the first error stops the search.
type CompositeLinker struct {
	linkers []GuardingLinker
}

// NewCompositeLinker creates a composite of the given linkers. Nil entries are skipped.
func NewCompositeLinker(linkers ...GuardingLinker) *CompositeLinker {
	filtered := make([]GuardingLinker, 0, len(linkers))
	for _, l := range linkers {
		if l != nil {
			filtered = append(filtered, l)
		}
	}
	return &CompositeLinker{linkers: filtered}
}

// GuardedInvocation returns the first invocation any linker produces.
func (c *CompositeLinker) GuardedInvocation(ctx context.Context, req Request) (*invocation.GuardedInvocation, error) {
	for _, l := range c.linkers {
		gi, err := l.GuardedInvocation(ctx, req)
		if err != nil {
			return nil, err
		}
		if gi != nil {
			return gi, nil
		}
	}
	return nil, nil
}

// Len returns the number of linkers in the composite.
func (c *CompositeLinker) Len() int {
	return len(c.linkers)
}

var (
	_ GuardingLinker = LinkerFunc(nil)
	_ GuardingLinker = (*CompositeLinker)(nil)
)
