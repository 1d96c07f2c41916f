package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/dynlink/invocation"
)

// Middleware wraps invocation targets with tracing, metrics, and logging.
// The dynamic linker uses it on the relink path, never on cached targets.
//
// Contract:
//   - Concurrency: Wrap returns a target safe for concurrent use.
//   - Context: the span context is propagated to the wrapped target.
//   - Errors: errors from the wrapped target are recorded and returned unchanged.
//   - Ownership: arguments and results pass through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps target so each call is traced, measured, and logged.
func (m *Middleware) Wrap(meta SiteMeta, target invocation.Target) invocation.Target {
	logger := m.logger.WithSite(meta)

	return func(ctx context.Context, args ...any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := target(ctx, args...)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordLink(ctx, meta, duration, err)

		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
			{Key: "arg_count", Value: len(args)},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "call site link failed", fields...)
		} else {
			logger.Debug(ctx, "call site linked", fields...)
		}

		return result, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
