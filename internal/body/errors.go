package body

import "errors"

// Domain errors for registry operations.
var (
	// ErrNotFound indicates a lookup of a body name that is not registered.
	ErrNotFound = errors.New("body: not found")

	// ErrInvalidParameter indicates a non-finite or out-of-range attribute.
	ErrInvalidParameter = errors.New("body: invalid parameter")
)
