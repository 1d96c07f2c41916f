package linker

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/dynlink/callsite"
)

// Bootstrapper shares one linked call site per descriptor.
type Bootstrapper struct {
	linker *DynamicLinker
	opts   []callsite.Option

	mu      sync.RWMutex
	sites   map[callsite.Descriptor]*callsite.ChainedCallSite
	order   []callsite.Descriptor // bootstrap order
	sfGroup singleflight.Group    // collapses concurrent bootstraps of one descriptor
}

// NewBootstrapper creates a Bootstrapper. opts are applied to every site it creates.
func NewBootstrapper(dl *DynamicLinker, opts ...callsite.Option) (*Bootstrapper, error) {
	if dl == nil {
		return nil, ErrNilLinker
	}
	return &Bootstrapper{
		linker: dl,
		opts:   opts,
		sites:  make(map[callsite.Descriptor]*callsite.ChainedCallSite),
	}, nil
}

// CallSite returns the linked call site for desc, creating it on first use.
func (b *Bootstrapper) CallSite(desc callsite.Descriptor) (*callsite.ChainedCallSite, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if site := b.lookup(desc); site != nil {
		return site, nil
	}

	v, err, _ := b.sfGroup.Do(flightKey(desc), func() (any, error) {
		if site := b.lookup(desc); site != nil {
			return site, nil
		}

		site, err := callsite.NewChainedCallSite(desc, b.opts...)
		if err != nil {
			return nil, err
		}
		if _, err := b.linker.Link(site); err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.sites[desc] = site
		b.order = append(b.order, desc)
		b.mu.Unlock()
		return site, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*callsite.ChainedCallSite), nil
}

// Invoke bootstraps the call site for desc if needed and invokes it.
func (b *Bootstrapper) Invoke(ctx context.Context, desc callsite.Descriptor, args ...any) (any, error) {
	site, err := b.CallSite(desc)
	if err != nil {
		return nil, err
	}
	return site.Invoke(ctx, args...)
}

// Sites returns every bootstrapped call site in bootstrap order.
func (b *Bootstrapper) Sites() []*callsite.ChainedCallSite {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*callsite.ChainedCallSite, 0, len(b.order))
	for _, desc := range b.order {
		out = append(out, b.sites[desc])
	}
	return out
}

func (b *Bootstrapper) lookup(desc callsite.Descriptor) *callsite.ChainedCallSite {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sites[desc]
}

// flightKey encodes every descriptor field unambiguously; Descriptor.String
// does not, since operations and names may contain ':'.
func flightKey(d callsite.Descriptor) string {
	return fmt.Sprintf("%q\x00%q\x00%d", d.Operation, d.Name, d.Arity)
}
