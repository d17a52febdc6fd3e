package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrInvariant marks a break in the determinism guarantee (e.g. two
	// distinct documents hashing to the same identifier). It is never
	// swallowed: callers must propagate it.
	ErrInvariant = errors.New("internal invariant violation")
)
