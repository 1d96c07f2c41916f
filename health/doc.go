// Package health reports the health of linked call sites.
//
// A Checker reports a Status: Healthy, Degraded, or Unhealthy. The
// CallSiteChecker inspects chained call sites: a site that was never linked
// is Unhealthy, and a site whose chain is saturated (megamorphic) is Degraded,
// since every further shape evicts a cached entry.
//
// # Basic Usage
//
//	check := health.NewCallSiteChecker("dispatch", bootstrapper.Sites)
//
//	agg := health.NewAggregator()
//	agg.Register(check)
//
//	report := agg.CheckAll(ctx)
//	if report.Status != health.StatusHealthy {
//	    log.Printf("dispatch: %s", report.Results["dispatch"].Message)
//	}
package health
