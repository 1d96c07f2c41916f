package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RelinkKind distinguishes the three ways a chain is rebuilt.
type RelinkKind string

const (
	RelinkKindRelink RelinkKind = "relink"
	RelinkKindReset  RelinkKind = "reset"
	RelinkKindPrune  RelinkKind = "prune"
)

// RelinkEvent describes one completed chain rebuild.
type RelinkEvent struct {
	Kind    RelinkKind
	Length  int // chain length after the rebuild
	Evicted int // entries removed to make room (FIFO)
	Pruned  int // entries removed because they were invalidated or exception-tagged
}

// Metrics records call-site linkage metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is never on the cache-hit path.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLink records a linker round trip triggered by a cache miss.
	RecordLink(ctx context.Context, meta SiteMeta, duration time.Duration, err error)

	// RecordRelink records a chain rebuild.
	RecordRelink(ctx context.Context, meta SiteMeta, ev RelinkEvent)
}

type metricsImpl struct {
	linkCount    metric.Int64Counter
	linkErrors   metric.Int64Counter
	linkDuration metric.Float64Histogram
	relinkCount  metric.Int64Counter
	evicted      metric.Int64Counter
	pruned       metric.Int64Counter
	chainLength  metric.Int64Histogram
}

// NewMetrics creates Metrics backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m := &metricsImpl{}
	var err error

	if m.linkCount, err = meter.Int64Counter(
		"callsite.link.total",
		metric.WithDescription("Total number of linker round trips"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}

	if m.linkErrors, err = meter.Int64Counter(
		"callsite.link.errors",
		metric.WithDescription("Total number of failed linker round trips"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.linkDuration, err = meter.Float64Histogram(
		"callsite.link.duration_ms",
		metric.WithDescription("Linker round trip duration in milliseconds, excluding the linked call"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.relinkCount, err = meter.Int64Counter(
		"callsite.relink.total",
		metric.WithDescription("Total number of chain rebuilds"),
		metric.WithUnit("{relink}"),
	); err != nil {
		return nil, err
	}

	if m.evicted, err = meter.Int64Counter(
		"callsite.chain.evicted",
		metric.WithDescription("Entries evicted from a full chain"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}

	if m.pruned, err = meter.Int64Counter(
		"callsite.chain.pruned",
		metric.WithDescription("Stale entries removed from a chain"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}

	if m.chainLength, err = meter.Int64Histogram(
		"callsite.chain.length",
		metric.WithDescription("Chain length after each rebuild"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// MetricsFromObserver creates Metrics using the observer's meter.
func MetricsFromObserver(obs Observer) (Metrics, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return NewMetrics(obs.Meter())
}

func (m *metricsImpl) RecordLink(ctx context.Context, meta SiteMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.linkCount.Add(ctx, 1, opt)
	if err != nil {
		m.linkErrors.Add(ctx, 1, opt)
	}
	m.linkDuration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *metricsImpl) RecordRelink(ctx context.Context, meta SiteMeta, ev RelinkEvent) {
	attrs := meta.attributes()
	opt := metric.WithAttributes(attrs...)

	m.relinkCount.Add(ctx, 1, metric.WithAttributes(
		append(attrs, attribute.String("callsite.relink.kind", string(ev.Kind)))...,
	))
	if ev.Evicted > 0 {
		m.evicted.Add(ctx, int64(ev.Evicted), opt)
	}
	if ev.Pruned > 0 {
		m.pruned.Add(ctx, int64(ev.Pruned), opt)
	}
	m.chainLength.Record(ctx, int64(ev.Length), opt)
}

type noopMetrics struct{}

// NewNoopMetrics returns Metrics that record nothing.
func NewNoopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordLink(context.Context, SiteMeta, time.Duration, error) {}
func (noopMetrics) RecordRelink(context.Context, SiteMeta, RelinkEvent)        {}
