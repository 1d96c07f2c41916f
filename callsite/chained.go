package callsite

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonwraymond/dynlink/invocation"
	"github.com/jonwraymond/dynlink/observe"
)

// CacheState classifies a chain by how many invocations it holds.
type CacheState int

const (
	// CacheStateEmpty means nothing is cached; every call reaches the fallback.
	CacheStateEmpty CacheState = iota
	// CacheStateMonomorphic means exactly one invocation is cached.
	CacheStateMonomorphic
	// CacheStatePolymorphic means more than one invocation is cached.
	CacheStatePolymorphic
	// CacheStateMegamorphic means the chain is full and new links evict old ones.
	CacheStateMegamorphic
)

// String returns the string representation of the cache state.
func (s CacheState) String() string {
	switch s {
	case CacheStateEmpty:
		return "empty"
	case CacheStateMonomorphic:
		return "monomorphic"
	case CacheStatePolymorphic:
		return "polymorphic"
	case CacheStateMegamorphic:
		return "megamorphic"
	default:
		return "unknown"
	}
}

// ChainedCallSite is a CallSite that caches up to MaxChainLength guarded
// invocations and dispatches through them newest first.
//
// Contract:
// - Concurrency: all methods are safe for concurrent use and lock-free.
// - Races: concurrent relinks are not merged; the last store wins.
// - Errors: relink bookkeeping never fails an invocation. A non-positive
//   max chain length at relink time panics.
type ChainedCallSite struct {
	CallSite

	config         Config
	maxChainLength func() int

	// chain is never mutated after it is stored.
	chain atomic.Pointer[[]*invocation.GuardedInvocation]

	meta    observe.SiteMeta
	logger  observe.Logger
	metrics observe.Metrics

	relinks   atomic.Int64
	resets    atomic.Int64
	prunes    atomic.Int64
	evictions atomic.Int64
	pruned    atomic.Int64
}

// NewChainedCallSite creates an uninitialized chained call site.
func NewChainedCallSite(desc Descriptor, opts ...Option) (*ChainedCallSite, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	cs := &ChainedCallSite{
		CallSite: CallSite{desc: desc},
		config:   DefaultConfig(),
		meta:     desc.Meta(),
		logger:   observe.NewNoopLogger(),
		metrics:  observe.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(cs)
	}

	if err := validateMaxChainLength(cs.MaxChainLength()); err != nil {
		return nil, err
	}
	cs.logger = cs.logger.WithSite(cs.meta)

	return cs, nil
}

// MaxChainLength returns the current chain bound. It is not validated here.
func (cs *ChainedCallSite) MaxChainLength() int {
	if cs.maxChainLength != nil {
		return cs.maxChainLength()
	}
	return cs.config.MaxChainLength
}

// Relink adds inv to the chain, evicting the oldest entry if the chain is
// full, and installs the rebuilt target. fallback is invoked when no cached
// guard matches. A nil inv only prunes.
func (cs *ChainedCallSite) Relink(ctx context.Context, inv *invocation.GuardedInvocation, fallback invocation.Target) invocation.Target {
	if inv == nil {
		return cs.relink(ctx, nil, fallback, observe.RelinkKindPrune, false, false)
	}
	return cs.relink(ctx, inv, fallback, observe.RelinkKindRelink, false, false)
}

// ResetAndRelink discards every cached entry, then behaves like Relink.
func (cs *ChainedCallSite) ResetAndRelink(ctx context.Context, inv *invocation.GuardedInvocation, fallback invocation.Target) invocation.Target {
	return cs.relink(ctx, inv, fallback, observe.RelinkKindReset, true, false)
}

// Prune removes invalidated entries, and exception-tagged entries when
// dropExceptionTagged is set, and installs the rebuilt target.
func (cs *ChainedCallSite) Prune(ctx context.Context, fallback invocation.Target, dropExceptionTagged bool) invocation.Target {
	return cs.relink(ctx, nil, fallback, observe.RelinkKindPrune, false, dropExceptionTagged)
}

func (cs *ChainedCallSite) relink(
	ctx context.Context,
	inv *invocation.GuardedInvocation,
	fallback invocation.Target,
	kind observe.RelinkKind,
	reset bool,
	dropExceptionTagged bool,
) invocation.Target {
	if fallback == nil {
		panic(fmt.Errorf("%w: relink fallback for %s", ErrNilTarget, cs.desc))
	}
	maxLen := cs.MaxChainLength()
	if err := validateMaxChainLength(maxLen); err != nil {
		panic(fmt.Errorf("%w (site %s)", err, cs.desc))
	}

	var current []*invocation.GuardedInvocation
	if p := cs.chain.Load(); p != nil && !reset {
		current = *p
	}

	next := make([]*invocation.GuardedInvocation, 0, len(current)+1)
	pruned := 0
	for _, e := range current {
		if e.HasBeenInvalidated() || (dropExceptionTagged && e.HasException()) {
			pruned++
			continue
		}
		next = append(next, e)
	}

	evicted := 0
	if inv != nil {
		// A dynamic bound may have shrunk since the last relink.
		for len(next) >= maxLen {
			next = next[1:]
			evicted++
		}
		next = append(next, inv)
	}

	target := cs.fold(next, fallback)

	cs.chain.Store(&next)
	cs.SetTarget(target)

	cs.record(ctx, observe.RelinkEvent{
		Kind:    kind,
		Length:  len(next),
		Evicted: evicted,
		Pruned:  pruned,
	})
	return target
}

// fold composes entries oldest to newest so the newest guard is tested first
// and fallback is reached only when every guard fails.
func (cs *ChainedCallSite) fold(entries []*invocation.GuardedInvocation, fallback invocation.Target) invocation.Target {
	onInvalidated := &pruneAndInvoke{site: cs, fallback: fallback}
	onException := &pruneOnError{site: cs, fallback: fallback}

	target := fallback
	for _, e := range entries {
		target = e.Compose(target, onInvalidated.Invoke, onException.Handle)
	}
	return target
}

func (cs *ChainedCallSite) record(ctx context.Context, ev observe.RelinkEvent) {
	switch ev.Kind {
	case observe.RelinkKindReset:
		cs.resets.Add(1)
	case observe.RelinkKindPrune:
		cs.prunes.Add(1)
	default:
		cs.relinks.Add(1)
	}
	cs.evictions.Add(int64(ev.Evicted))
	cs.pruned.Add(int64(ev.Pruned))

	if ctx == nil {
		ctx = context.Background()
	}
	cs.metrics.RecordRelink(ctx, cs.meta, ev)

	fields := []observe.Field{
		{Key: "kind", Value: string(ev.Kind)},
		{Key: "length", Value: ev.Length},
		{Key: "evicted", Value: ev.Evicted},
		{Key: "pruned", Value: ev.Pruned},
	}
	if ev.Kind == observe.RelinkKindReset {
		cs.logger.Warn(ctx, "call site reset", fields...)
	} else {
		cs.logger.Debug(ctx, "call site relinked", fields...)
	}
}

// Entries returns a copy of the cached invocations, oldest first.
func (cs *ChainedCallSite) Entries() []*invocation.GuardedInvocation {
	p := cs.chain.Load()
	if p == nil {
		return nil
	}
	out := make([]*invocation.GuardedInvocation, len(*p))
	copy(out, *p)
	return out
}

// Len returns the number of cached invocations.
func (cs *ChainedCallSite) Len() int {
	if p := cs.chain.Load(); p != nil {
		return len(*p)
	}
	return 0
}

// CacheState classifies the current chain.
func (cs *ChainedCallSite) CacheState() CacheState {
	n := cs.Len()
	switch {
	case n == 0:
		return CacheStateEmpty
	case n >= cs.MaxChainLength():
		return CacheStateMegamorphic
	case n == 1:
		return CacheStateMonomorphic
	default:
		return CacheStatePolymorphic
	}
}

// Stats returns a snapshot of relink counters.
func (cs *ChainedCallSite) Stats() Stats {
	return Stats{
		State:      cs.State(),
		CacheState: cs.CacheState(),
		Length:     cs.Len(),
		Relinks:    cs.relinks.Load(),
		Resets:     cs.resets.Load(),
		Prunes:     cs.prunes.Load(),
		Evictions:  cs.evictions.Load(),
		Pruned:     cs.pruned.Load(),
	}
}

// Stats contains chained call site statistics.
type Stats struct {
	State      State
	CacheState CacheState
	Length     int
	Relinks    int64
	Resets     int64
	Prunes     int64
	Evictions  int64
	Pruned     int64
}

// pruneAndInvoke is installed behind every switch point check. It rebuilds
// the chain without invalidated entries and dispatches through the result.
type pruneAndInvoke struct {
	site     *ChainedCallSite
	fallback invocation.Target
}

func (p *pruneAndInvoke) Invoke(ctx context.Context, args ...any) (any, error) {
	return p.site.Prune(ctx, p.fallback, false)(ctx, args...)
}

// pruneOnError is installed around exception-tagged targets. It drops every
// tagged entry and hands the original error back to the caller.
type pruneOnError struct {
	site     *ChainedCallSite
	fallback invocation.Target
}

func (p *pruneOnError) Handle(ctx context.Context, err error, _ ...any) (any, error) {
	p.site.Prune(ctx, p.fallback, true)
	return nil, err
}
