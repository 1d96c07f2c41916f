package callsite

import "errors"

// Configuration errors.
var (
	// ErrInvalidMaxChainLength indicates a max chain length that is not positive.
	ErrInvalidMaxChainLength = errors.New("callsite: max chain length must be positive")

	// ErrMissingName indicates Descriptor.Name is empty.
	ErrMissingName = errors.New("callsite: descriptor name is required")
)

// Runtime errors.
var (
	// ErrNilTarget indicates a nil target was supplied for installation.
	ErrNilTarget = errors.New("callsite: target is nil")

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("callsite: already initialized")

	// ErrUninitialized indicates an invocation before Initialize.
	ErrUninitialized = errors.New("callsite: not initialized")

	// ErrArityMismatch indicates an invocation with the wrong argument count.
	ErrArityMismatch = errors.New("callsite: argument count does not match descriptor")
)
