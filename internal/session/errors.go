package session

import "errors"

// Sentinel errors reported through Outcome.Err. None of them mutates state.
var (
	// ErrOutOfBounds indicates a click whose wavelength lies outside the spectrum.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrNoComponent indicates a command that needs a selected component.
	ErrNoComponent = errors.New("need to generate a component first")
	// ErrNoCursor indicates a command that needs the cursor over a panel.
	ErrNoCursor = errors.New("cursor is not over a panel")
	// ErrUnknownKey indicates a key with no command bound to it.
	ErrUnknownKey = errors.New("unknown command")
	// ErrBadEntry indicates typed input that could not be parsed or applied.
	ErrBadEntry = errors.New("invalid entry")
	// ErrGesturePending indicates a command issued mid-way through a two-click gesture.
	ErrGesturePending = errors.New("finish the pending selection or press esc")
	// ErrBadWindow indicates display limits that would be empty or inverted.
	ErrBadWindow = errors.New("invalid display window")
)
