package invocation

import "sync/atomic"

// SwitchPoint is an invalidation token shared between a linker and the
// entries it produced. Invalidation is one-way.
//
// Contract:
// - Concurrency: safe for concurrent use; readers never block.
// - Visibility: an Invalidate is observed by every later HasBeenInvalidated.
type SwitchPoint struct {
	invalidated atomic.Bool
}

// NewSwitchPoint returns a valid switch point.
func NewSwitchPoint() *SwitchPoint {
	return &SwitchPoint{}
}

// Invalidate marks the switch point as invalidated. Idempotent.
func (sp *SwitchPoint) Invalidate() {
	sp.invalidated.Store(true)
}

// HasBeenInvalidated reports whether Invalidate has been called.
func (sp *SwitchPoint) HasBeenInvalidated() bool {
	return sp.invalidated.Load()
}

// InvalidateAll invalidates every given switch point. Nil entries are skipped.
func InvalidateAll(points ...*SwitchPoint) {
	for _, sp := range points {
		if sp != nil {
			sp.Invalidate()
		}
	}
}

func anyInvalidated(points []*SwitchPoint) bool {
	for _, sp := range points {
		if sp.HasBeenInvalidated() {
			return true
		}
	}
	return false
}
