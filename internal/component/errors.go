package component

import "errors"

// Sentinel errors for component construction and registry operations.
var (
	// ErrNoTransitions indicates the catalog has no transitions for the anchor species.
	ErrNoTransitions = errors.New("no catalog transitions for component")
	// ErrDuplicateName indicates a component with the same name is already registered.
	ErrDuplicateName = errors.New("component name already registered")
	// ErrNotFound indicates no component with the requested name exists.
	ErrNotFound = errors.New("component not found")
	// ErrInvalidVelocity indicates velocity limits with vmin >= vmax.
	ErrInvalidVelocity = errors.New("velocity limits must satisfy vmin < vmax")
)
