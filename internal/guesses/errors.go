package guesses

import "errors"

// Sentinel errors for reading guesses files.
var (
	// ErrFWHMMismatch indicates the file was written with a different FWHM
	// than the session uses. Fit parameters are not comparable across FWHMs.
	ErrFWHMMismatch = errors.New("input FWHMs do not match")
	// ErrUnknownLine indicates a stored line whose rest wavelength is not in the catalog.
	ErrUnknownLine = errors.New("stored line not in catalog")
	// ErrBadLineIndex indicates a lines key that is not a non-negative integer.
	ErrBadLineIndex = errors.New("invalid line index")
)

// DecodeError records a problem rebuilding one component record.
type DecodeError struct {
	Key string // component name in the file
	Err error
}

// Error returns the component key and the underlying problem.
func (e *DecodeError) Error() string {
	return "component " + e.Key + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
