package health

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/dynlink/callsite"
	"github.com/jonwraymond/dynlink/invocation"
)

func chainedSite(t *testing.T, name string, maxLen int) *callsite.ChainedCallSite {
	t.Helper()
	site, err := callsite.NewChainedCallSite(callsite.Descriptor{Name: name, Arity: 1}, callsite.WithMaxChainLength(maxLen))
	if err != nil {
		t.Fatalf("NewChainedCallSite failed: %v", err)
	}
	return site
}

func fill(t *testing.T, site *callsite.ChainedCallSite, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		gi, err := invocation.New(invocation.Constant(i), invocation.Always)
		if err != nil {
			t.Fatal(err)
		}
		site.Relink(context.Background(), gi, invocation.Constant("miss"))
	}
}

func TestCallSiteChecker(t *testing.T) {
	linked := chainedSite(t, "linked", 4)
	fill(t, linked, 2)

	saturated := chainedSite(t, "saturated", 2)
	fill(t, saturated, 2)

	unlinked := chainedSite(t, "unlinked", 4)

	tests := []struct {
		name  string
		sites []*callsite.ChainedCallSite
		want  Status
	}{
		{"empty", nil, StatusHealthy},
		{"linked", []*callsite.ChainedCallSite{linked}, StatusHealthy},
		{"saturated", []*callsite.ChainedCallSite{linked, saturated}, StatusDegraded},
		{"unlinked wins", []*callsite.ChainedCallSite{saturated, unlinked}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStaticCallSiteChecker("sites", tt.sites...).Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("status = %v (%s), want %v", r.Status, r.Message, tt.want)
			}
			if len(r.Details) != len(tt.sites) {
				t.Errorf("details = %d, want %d", len(r.Details), len(tt.sites))
			}
		})
	}

	r := NewStaticCallSiteChecker("sites", unlinked).Check(context.Background())
	if !errors.Is(r.Err, ErrUnlinkedCallSite) {
		t.Errorf("error = %v, want ErrUnlinkedCallSite", r.Err)
	}
}

func TestCallSiteChecker_Details(t *testing.T) {
	site := chainedSite(t, "probe", 2)
	fill(t, site, 3)

	r := NewStaticCallSiteChecker("sites", site).Check(context.Background())
	d, ok := r.Details["probe(1)"].(map[string]any)
	if !ok {
		t.Fatalf("missing details for probe(1): %v", r.Details)
	}
	if d["cache_state"] != "megamorphic" || d["length"] != 2 || d["evictions"] != int64(1) {
		t.Errorf("unexpected details: %v", d)
	}
}

func TestCallSiteChecker_ReadsSourceEveryCheck(t *testing.T) {
	var sites []*callsite.ChainedCallSite
	c := NewCallSiteChecker("live", func() []*callsite.ChainedCallSite { return sites })

	if r := c.Check(context.Background()); r.Status != StatusHealthy {
		t.Fatalf("empty status = %v", r.Status)
	}
	sites = append(sites, chainedSite(t, "late", 2))
	if r := c.Check(context.Background()); r.Status != StatusUnhealthy {
		t.Errorf("status after adding unlinked site = %v, want unhealthy", r.Status)
	}
}

func TestCallSiteChecker_InAggregator(t *testing.T) {
	site := chainedSite(t, "agg", 4)
	fill(t, site, 1)

	agg := NewAggregator()
	agg.Register(NewStaticCallSiteChecker("dispatch", site))
	report := agg.CheckAll(context.Background())
	if report.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy", report.Status)
	}
}

func TestCallSiteChecker_DuplicateDescriptorsCountedSeparately(t *testing.T) {
	a := chainedSite(t, "twin", 4)
	b := chainedSite(t, "twin", 4)

	r := NewStaticCallSiteChecker("sites", a, nil, b).Check(context.Background())
	if r.Message != "2 of 2 call sites not linked" {
		t.Errorf("message = %q, want %q", r.Message, "2 of 2 call sites not linked")
	}
	if len(r.Details) != 2 {
		t.Errorf("details = %d, want 2 distinct entries: %v", len(r.Details), r.Details)
	}
	if _, ok := r.Details["twin(1)#2"]; !ok {
		t.Errorf("missing suffixed entry for duplicate descriptor: %v", r.Details)
	}
}
