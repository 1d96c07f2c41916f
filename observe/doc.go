// Package observe provides observability primitives for dynamic call sites.
//
// It is a pure instrumentation library: it records linker round trips and
// chain relinks, but never decides what gets linked. Call sites and the
// dynamic linker accept a Logger and Metrics from here; NewObserver wires
// both to OpenTelemetry providers.
package observe
