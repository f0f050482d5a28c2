package linelist

import "errors"

// Sentinel errors for catalog construction and lookup.
var (
	// ErrNoTransitions indicates a query matched no transitions.
	ErrNoTransitions = errors.New("no transitions available")
	// ErrUnknownTransition indicates no catalog entry sits at the requested rest wavelength.
	ErrUnknownTransition = errors.New("unknown transition")
	// ErrUnknownList indicates an unrecognized line list name.
	ErrUnknownList = errors.New("unknown line list")
	// ErrInvalidTransition indicates a catalog entry failed validation.
	ErrInvalidTransition = errors.New("invalid transition")
)
