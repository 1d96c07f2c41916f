package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatus_Worse(t *testing.T) {
	if StatusHealthy.worse(StatusDegraded) != StatusDegraded {
		t.Error("degraded should be worse than healthy")
	}
	if StatusUnhealthy.worse(StatusDegraded) != StatusUnhealthy {
		t.Error("unhealthy should be worse than degraded")
	}
}

func TestResultConstructors(t *testing.T) {
	boom := errors.New("boom")
	r := Unhealthy("down", boom).WithDetails(map[string]any{"k": 1})

	if r.Status != StatusUnhealthy || r.Message != "down" || !errors.Is(r.Err, boom) {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.Details["k"] != 1 {
		t.Error("details not set")
	}
	if r.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if Healthy("").Status != StatusHealthy || Degraded("").Status != StatusDegraded {
		t.Error("constructor status mismatch")
	}
}

func TestCheckerFunc(t *testing.T) {
	c := NewCheckerFunc("fn", func(context.Context) Result { return Degraded("slow") })
	if c.Name() != "fn" {
		t.Errorf("Name() = %q", c.Name())
	}
	if r := c.Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("status = %v, want degraded", r.Status)
	}
}
