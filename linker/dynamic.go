package linker

import (
	"context"
	"fmt"

	"github.com/jonwraymond/dynlink/callsite"
	"github.com/jonwraymond/dynlink/invocation"
	"github.com/jonwraymond/dynlink/observe"
)

// DefaultUnstableRelinkThreshold is the relink count after which a call site
// is treated as unstable.
const DefaultUnstableRelinkThreshold = 8

// Config configures a DynamicLinker.
type Config struct {
	// UnstableRelinkThreshold is the number of relinks after which a site is
	// unstable. Zero disables unstable detection.
	// Default: 8
	UnstableRelinkThreshold int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{UnstableRelinkThreshold: DefaultUnstableRelinkThreshold}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.UnstableRelinkThreshold < 0 {
		return fmt.Errorf("%w, got: %d", ErrInvalidThreshold, c.UnstableRelinkThreshold)
	}
	return nil
}

// Option configures a DynamicLinker.
type Option func(*DynamicLinker)

// WithMiddleware instruments every linker round trip.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(dl *DynamicLinker) {
		dl.middleware = mw
	}
}

// WithLogger sets the logger used for unstable-site transitions.
func WithLogger(logger observe.Logger) Option {
	return func(dl *DynamicLinker) {
		if logger != nil {
			dl.logger = logger
		}
	}
}

// DynamicLinker links call sites through a GuardingLinker.
//
// Contract:
// - Concurrency: safe for concurrent use; it holds no per-site state.
// - Errors: linker errors and ErrNoLinker reach the caller of the call site.
type DynamicLinker struct {
	linker     GuardingLinker
	config     Config
	middleware *observe.Middleware
	logger     observe.Logger
}

// NewDynamicLinker creates a DynamicLinker.
func NewDynamicLinker(l GuardingLinker, cfg Config, opts ...Option) (*DynamicLinker, error) {
	if l == nil {
		return nil, ErrNilLinker
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dl := &DynamicLinker{
		linker: l,
		config: cfg,
		logger: observe.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(dl)
	}
	return dl, nil
}

// Link installs the initial relink-and-invoke target on site.
func (dl *DynamicLinker) Link(site *callsite.ChainedCallSite) (*callsite.ChainedCallSite, error) {
	if site == nil {
		return nil, ErrNilCallSite
	}
	if err := site.Initialize(dl.relinkAndInvoke(site, 0)); err != nil {
		return nil, err
	}
	return site, nil
}

// relinkAndInvoke returns the fallback for a chain built after relinkCount
// relinks.
func (dl *DynamicLinker) relinkAndInvoke(site *callsite.ChainedCallSite, relinkCount int) invocation.Target {
	desc := site.Descriptor()
	threshold := dl.config.UnstableRelinkThreshold

	// link resolves and installs an invocation; its result is the
	// *invocation.GuardedInvocation to run. Only link is instrumented.
	var link invocation.Target = func(ctx context.Context, args ...any) (any, error) {
		unstable := threshold > 0 && relinkCount >= threshold

		gi, err := dl.linker.GuardedInvocation(ctx, Request{
			Descriptor: desc,
			Args:       args,
			Unstable:   unstable,
		})
		if err != nil {
			return nil, err
		}
		if gi == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoLinker, desc)
		}

		// The count stops at threshold+1 so the reset happens only once,
		// on the transition to unstable.
		next := relinkCount
		if threshold == 0 || relinkCount <= threshold {
			next++
		}
		fallback := dl.relinkAndInvoke(site, next)

		if threshold > 0 && relinkCount == threshold {
			dl.logger.WithSite(desc.Meta()).Warn(ctx, "call site became unstable",
				observe.Field{Key: "relinks", Value: relinkCount})
			site.ResetAndRelink(ctx, gi, fallback)
		} else {
			site.Relink(ctx, gi, fallback)
		}
		return gi, nil
	}
	if dl.middleware != nil {
		link = dl.middleware.Wrap(desc.Meta(), link)
	}

	return func(ctx context.Context, args ...any) (any, error) {
		v, err := link(ctx, args...)
		if err != nil {
			return nil, err
		}
		return v.(*invocation.GuardedInvocation).Target()(ctx, args...)
	}
}
