package observe

import (
	"context"
	"testing"
	"time"
)

func TestObserverContract_Noops(t *testing.T) {
	cfg := Config{
		ServiceName: "observe-test",
		Tracing:     TracingConfig{Enabled: false, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: false, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false, Level: "info"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Fatalf("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Fatalf("expected non-nil meter")
	}
	if obs.Logger() == nil {
		t.Fatalf("expected non-nil logger")
	}
}

func TestLoggerContract_WithSite(t *testing.T) {
	if NewNoopLogger().WithSite(SiteMeta{Name: "noop"}) == nil {
		t.Fatalf("WithSite should return non-nil logger")
	}
}

func TestMetricsContract_NoPanic(t *testing.T) {
	m := NewNoopMetrics()
	m.RecordLink(context.Background(), SiteMeta{Name: "noop"}, 10*time.Millisecond, nil)
	m.RecordRelink(context.Background(), SiteMeta{Name: "noop"}, RelinkEvent{Kind: RelinkKindPrune})
}

func TestTracerContract_NoPanic(t *testing.T) {
	tracer := NewNoopTracer()
	_, span := tracer.StartSpan(context.Background(), SiteMeta{Name: "noop"})
	tracer.EndSpan(span, nil)
}
