package linker

import "errors"

var (
	// ErrNoLinker indicates no linker could produce an invocation.
	ErrNoLinker = errors.New("linker: no linker for call site")

	// ErrNilLinker indicates a nil GuardingLinker was supplied.
	ErrNilLinker = errors.New("linker: linker is nil")

	// ErrNilCallSite indicates a nil call site was supplied.
	ErrNilCallSite = errors.New("linker: call site is nil")

	// ErrInvalidThreshold indicates a negative unstable relink threshold.
	ErrInvalidThreshold = errors.New("linker: unstable relink threshold must not be negative")
)
