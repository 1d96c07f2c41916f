package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return NewTracer(tp.Tracer("test")), sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSiteMeta_Names(t *testing.T) {
	tests := []struct {
		name     string
		meta     SiteMeta
		wantID   string
		wantSpan string
	}{
		{
			name:     "with operation",
			meta:     SiteMeta{Operation: "GET:METHOD", Name: "toString"},
			wantID:   "GET:METHOD:toString",
			wantSpan: "callsite.link.GET:METHOD.toString",
		},
		{
			name:     "without operation",
			meta:     SiteMeta{Name: "call"},
			wantID:   "call",
			wantSpan: "callsite.link.call",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.meta.SiteID(); got != tc.wantID {
				t.Errorf("SiteID() = %q, want %q", got, tc.wantID)
			}
			if got := tc.meta.SpanName(); got != tc.wantSpan {
				t.Errorf("SpanName() = %q, want %q", got, tc.wantSpan)
			}
		})
	}
}

func TestTracer_SpanAttributes(t *testing.T) {
	tracer, sr := newRecordingTracer()
	meta := SiteMeta{Operation: "CALL", Name: "render", Arity: 2}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "callsite.link.CALL.render" {
		t.Errorf("span name = %q", s.Name())
	}
	if v, ok := spanAttr(s, "callsite.id"); !ok || v.AsString() != "CALL:render" {
		t.Errorf("callsite.id = %v", v)
	}
	if v, ok := spanAttr(s, "callsite.arity"); !ok || v.AsInt64() != 2 {
		t.Errorf("callsite.arity = %v", v)
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}
}

func TestTracer_EndSpanRecordsError(t *testing.T) {
	tracer, sr := newRecordingTracer()

	_, span := tracer.StartSpan(context.Background(), SiteMeta{Name: "broken"})
	tracer.EndSpan(span, errors.New("no linker"))

	s := sr.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if v, _ := spanAttr(s, "callsite.error"); !v.AsBool() {
		t.Error("callsite.error should be true")
	}
	if len(s.Events()) == 0 {
		t.Error("expected an exception event on the span")
	}
}
