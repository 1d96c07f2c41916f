package invocation

import (
	"sync"
	"testing"
)

func TestSwitchPoint_InvalidateIsOneWay(t *testing.T) {
	sp := NewSwitchPoint()
	if sp.HasBeenInvalidated() {
		t.Fatal("new switch point should be valid")
	}

	sp.Invalidate()
	sp.Invalidate()
	if !sp.HasBeenInvalidated() {
		t.Error("switch point should stay invalidated")
	}
}

func TestInvalidateAll(t *testing.T) {
	a, b := NewSwitchPoint(), NewSwitchPoint()
	InvalidateAll(a, nil, b)

	if !a.HasBeenInvalidated() || !b.HasBeenInvalidated() {
		t.Error("InvalidateAll should invalidate every non-nil switch point")
	}
}

func TestSwitchPoint_ConcurrentReaders(t *testing.T) {
	sp := NewSwitchPoint()

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines + 1)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = sp.HasBeenInvalidated()
			}
		}()
	}
	go func() {
		defer wg.Done()
		sp.Invalidate()
	}()

	wg.Wait()
	if !sp.HasBeenInvalidated() {
		t.Error("invalidation should be visible after all goroutines finish")
	}
}
