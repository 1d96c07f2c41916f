package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/dynlink/callsite"
)

// CallSiteChecker reports the link state of a set of chained call sites.
type CallSiteChecker struct {
	name  string
	sites func() []*callsite.ChainedCallSite
}

// NewCallSiteChecker creates a checker over the sites returned by sites,
// which is called on every check. Passing a Bootstrapper's Sites method keeps
// the checker current as sites are created.
func NewCallSiteChecker(name string, sites func() []*callsite.ChainedCallSite) *CallSiteChecker {
	return &CallSiteChecker{name: name, sites: sites}
}

// NewStaticCallSiteChecker creates a checker over a fixed set of sites.
func NewStaticCallSiteChecker(name string, sites ...*callsite.ChainedCallSite) *CallSiteChecker {
	fixed := append([]*callsite.ChainedCallSite(nil), sites...)
	return NewCallSiteChecker(name, func() []*callsite.ChainedCallSite { return fixed })
}

// Name returns the checker name.
func (c *CallSiteChecker) Name() string { return c.name }

// Check is Unhealthy if any site is unlinked, Degraded if any chain is
// saturated, and Healthy otherwise.
func (c *CallSiteChecker) Check(ctx context.Context) Result {
	var sites []*callsite.ChainedCallSite
	if c.sites != nil {
		sites = c.sites()
	}

	details := make(map[string]any, len(sites))
	var total, unlinked, saturated int
	for _, site := range sites {
		if site == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Unhealthy("check cancelled", err)
		}

		total++
		key := site.Descriptor().String()
		if _, dup := details[key]; dup {
			key = fmt.Sprintf("%s#%d", key, total)
		}

		st := site.Stats()
		details[key] = map[string]any{
			"state":       st.State.String(),
			"cache_state": st.CacheState.String(),
			"length":      st.Length,
			"max_length":  site.MaxChainLength(),
			"relinks":     st.Relinks,
			"resets":      st.Resets,
			"evictions":   st.Evictions,
		}

		switch {
		case st.State == callsite.StateUninitialized:
			unlinked++
		case st.CacheState == callsite.CacheStateMegamorphic:
			saturated++
		}
	}

	var r Result
	switch {
	case unlinked > 0:
		r = Unhealthy(fmt.Sprintf("%d of %d call sites not linked", unlinked, total), ErrUnlinkedCallSite)
	case saturated > 0:
		r = Degraded(fmt.Sprintf("%d of %d call sites megamorphic", saturated, total))
	default:
		r = Healthy(fmt.Sprintf("%d call sites linked", total))
	}
	return r.WithDetails(details)
}

var _ Checker = (*CallSiteChecker)(nil)
