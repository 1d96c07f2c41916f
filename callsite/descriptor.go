package callsite

import (
	"strconv"
	"strings"

	"github.com/jonwraymond/dynlink/observe"
)

// Descriptor is the immutable signature metadata of a call site.
type Descriptor struct {
	// Operation is what the site does, e.g. "GET:PROPERTY" or "CALL".
	Operation string

	// Name is the name the operation applies to.
	Name string

	// Arity is the expected number of arguments. Negative means variadic.
	Arity int
}

// Validate checks that the descriptor is usable.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// String returns "<operation>:<name>(<arity>)", or "...(*)" when variadic.
func (d Descriptor) String() string {
	var b strings.Builder
	if d.Operation != "" {
		b.WriteString(d.Operation)
		b.WriteByte(':')
	}
	b.WriteString(d.Name)
	b.WriteByte('(')
	if d.Arity < 0 {
		b.WriteByte('*')
	} else {
		b.WriteString(strconv.Itoa(d.Arity))
	}
	b.WriteByte(')')
	return b.String()
}

// Meta returns the telemetry metadata for this descriptor.
func (d Descriptor) Meta() observe.SiteMeta {
	return observe.SiteMeta{
		Operation: d.Operation,
		Name:      d.Name,
		Arity:     d.Arity,
	}
}

func (d Descriptor) accepts(n int) bool {
	return d.Arity < 0 || d.Arity == n
}
