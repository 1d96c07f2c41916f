package linker

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/dynlink/invocation"
)

func fixed(value string) GuardingLinker {
	return LinkerFunc(func(context.Context, Request) (*invocation.GuardedInvocation, error) {
		return invocation.New(invocation.Constant(value), invocation.Always)
	})
}

var declines = LinkerFunc(func(context.Context, Request) (*invocation.GuardedInvocation, error) {
	return nil, nil
})

func linkedValue(t *testing.T, gi *invocation.GuardedInvocation) any {
	t.Helper()
	v, err := gi.Target()(context.Background())
	if err != nil {
		t.Fatalf("target failed: %v", err)
	}
	return v
}

func TestCompositeLinker_FirstNonNilWins(t *testing.T) {
	c := NewCompositeLinker(declines, nil, fixed("second"), fixed("third"))
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3 with nil skipped", c.Len())
	}

	gi, err := c.GuardedInvocation(context.Background(), Request{})
	if err != nil {
		t.Fatalf("GuardedInvocation failed: %v", err)
	}
	if got := linkedValue(t, gi); got != "second" {
		t.Errorf("linked %v, want second", got)
	}
}

func TestCompositeLinker_AllDecline(t *testing.T) {
	gi, err := NewCompositeLinker(declines, declines).GuardedInvocation(context.Background(), Request{})
	if err != nil || gi != nil {
		t.Errorf("got %v, %v; want nil, nil", gi, err)
	}
}

func TestCompositeLinker_ErrorStopsSearch(t *testing.T) {
	boom := errors.New("boom")
	reached := false
	failing := LinkerFunc(func(context.Context, Request) (*invocation.GuardedInvocation, error) {
		return nil, boom
	})
	after := LinkerFunc(func(context.Context, Request) (*invocation.GuardedInvocation, error) {
		reached = true
		return nil, nil
	})

	_, err := NewCompositeLinker(failing, after).GuardedInvocation(context.Background(), Request{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if reached {
		t.Error("linkers after an error must not run")
	}
}
