package callsite_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/dynlink/callsite"
	"github.com/jonwraymond/dynlink/invocation"
)

func typeGuard[T any](args ...any) bool {
	_, ok := args[0].(T)
	return ok
}

func ExampleChainedCallSite_Relink() {
	site, err := callsite.NewChainedCallSite(
		callsite.Descriptor{Operation: "CALL", Name: "describe", Arity: 1},
		callsite.WithMaxChainLength(2),
	)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ctx := context.Background()
	relink := invocation.Constant("relink")

	ints, _ := invocation.New(invocation.Constant("int"), typeGuard[int])
	strs, _ := invocation.New(invocation.Constant("string"), typeGuard[string])
	bools, _ := invocation.New(invocation.Constant("bool"), typeGuard[bool])

	site.Relink(ctx, ints, relink)
	site.Relink(ctx, strs, relink)
	fmt.Println(site.CacheState())

	// A third shape evicts the oldest.
	site.Relink(ctx, bools, relink)

	for _, arg := range []any{1, "s", true} {
		got, _ := site.Invoke(ctx, arg)
		fmt.Println(got)
	}
	// Output:
	// megamorphic
	// relink
	// string
	// bool
}

func ExampleChainedCallSite_Prune() {
	site, _ := callsite.NewChainedCallSite(callsite.Descriptor{Name: "f", Arity: -1})
	ctx := context.Background()
	relink := invocation.Constant("relink")

	sp := invocation.NewSwitchPoint()
	gi, _ := invocation.New(invocation.Constant("cached"), invocation.Always,
		invocation.WithSwitchPoints(sp))
	site.Relink(ctx, gi, relink)

	sp.Invalidate()
	site.Prune(ctx, relink, false)

	got, _ := site.Invoke(ctx)
	fmt.Println(site.Len(), got)
	// Output:
	// 0 relink
}

func ExampleNewChainedCallSite_validation() {
	_, err := callsite.NewChainedCallSite(
		callsite.Descriptor{Name: "f"},
		callsite.WithMaxChainLength(0),
	)
	fmt.Println(errors.Is(err, callsite.ErrInvalidMaxChainLength))
	// Output:
	// true
}
