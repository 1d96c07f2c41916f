package callsite

import (
	"fmt"

	"github.com/jonwraymond/dynlink/observe"
)

// DefaultMaxChainLength is the default number of cached invocations per site.
const DefaultMaxChainLength = 8

// Config configures a ChainedCallSite.
type Config struct {
	// MaxChainLength bounds the number of cached invocations.
	// Default: 8. Must be positive.
	MaxChainLength int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MaxChainLength: DefaultMaxChainLength}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	return validateMaxChainLength(c.MaxChainLength)
}

func validateMaxChainLength(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w, got: %d", ErrInvalidMaxChainLength, n)
	}
	return nil
}

// Option configures a ChainedCallSite.
type Option func(*ChainedCallSite)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(cs *ChainedCallSite) {
		cs.config = cfg
	}
}

// WithMaxChainLength sets a fixed max chain length.
func WithMaxChainLength(n int) Option {
	return func(cs *ChainedCallSite) {
		cs.config.MaxChainLength = n
	}
}

// WithMaxChainLengthFunc sets a max chain length that is re-read on every
// relink. A non-positive result at relink time panics.
func WithMaxChainLengthFunc(fn func() int) Option {
	return func(cs *ChainedCallSite) {
		cs.maxChainLength = fn
	}
}

// WithLogger sets the logger used for relink events.
func WithLogger(logger observe.Logger) Option {
	return func(cs *ChainedCallSite) {
		if logger != nil {
			cs.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink used for relink events.
func WithMetrics(metrics observe.Metrics) Option {
	return func(cs *ChainedCallSite) {
		if metrics != nil {
			cs.metrics = metrics
		}
	}
}
