// Package linker drives chained call sites from the miss path.
//
// A GuardingLinker produces a GuardedInvocation for a call site's descriptor
// and the arguments that missed the cache. DynamicLinker installs a
// relink-and-invoke target as the innermost fallback of every chain: on a
// total miss it asks the linker for a fresh invocation, relinks the site, and
// runs the new target with the original arguments.
//
// Sites that keep relinking are treated as unstable. Once the relink count
// reaches Config.UnstableRelinkThreshold the linker is told so through
// Request.Unstable, and the site's chain is reset once so the linker can
// replace many narrow entries with a general one.
//
// Bootstrapper hands out one linked call site per descriptor.
package linker
