package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SiteMeta identifies a call site for telemetry purposes.
type SiteMeta struct {
	Operation string // Operation the call site performs, e.g. "GET:PROPERTY" (optional)
	Name      string // Name the operation applies to (required)
	Arity     int    // Expected argument count, negative for variadic
}

// SiteID returns the fully qualified call-site identifier.
// Format: <operation>:<name> or <name>
func (m SiteMeta) SiteID() string {
	if m.Operation != "" {
		return m.Operation + ":" + m.Name
	}
	return m.Name
}

// SpanName returns the deterministic span name for a linker round trip.
// Format: callsite.link.<operation>.<name> or callsite.link.<name>
func (m SiteMeta) SpanName() string {
	if m.Operation != "" {
		return "callsite.link." + m.Operation + "." + m.Name
	}
	return "callsite.link." + m.Name
}

func (m SiteMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("callsite.id", m.SiteID()),
		attribute.String("callsite.name", m.Name),
	}
	if m.Operation != "" {
		attrs = append(attrs, attribute.String("callsite.operation", m.Operation))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with call-site span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a linker round trip.
	StartSpan(ctx context.Context, meta SiteMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta SiteMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(),
		attribute.Int("callsite.arity", meta.Arity),
		attribute.Bool("callsite.error", false),
	)

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("callsite.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a tracer that records nothing.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta SiteMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
