package models

import "errors"

// Common domain errors. Every failure surfaced by the bakery components
// wraps one of these sentinels, so callers can branch with errors.Is
// and wrap additional context with fmt.Errorf("%w: ...", err).
var (
	// ErrValidation marks malformed input: negative quantities,
	// empty required fields, non-positive amounts.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to an unknown entity id.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks ingredient demand exceeding the
	// available quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState marks an illegal order status transition.
	ErrInvalidState = errors.New("invalid state")

	// ErrReferenced marks a deletion blocked by a live reference.
	ErrReferenced = errors.New("blocked by live reference")

	// ErrCorruptState marks persisted state that fails the integrity
	// check on load.
	ErrCorruptState = errors.New("corrupt state")
)
