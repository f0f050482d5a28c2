package spectrum

import "errors"

// Sentinel errors for spectrum construction and I/O.
var (
	// ErrEmpty indicates a spectrum with no pixels.
	ErrEmpty = errors.New("spectrum has no pixels")
	// ErrLengthMismatch indicates wavelength, flux and uncertainty arrays differ in length.
	ErrLengthMismatch = errors.New("spectrum array lengths differ")
	// ErrUnsorted indicates the wavelength array is not strictly increasing.
	ErrUnsorted = errors.New("wavelength array is not increasing")
	// ErrNoContinuum indicates the spectrum carries no continuum normalization.
	ErrNoContinuum = errors.New("spectrum has no continuum estimate; normalize it first")
	// ErrUnsupportedFormat indicates a spectrum file extension with no reader.
	ErrUnsupportedFormat = errors.New("unsupported spectrum format")
	// ErrPixelIndex indicates a bad-pixel index outside the spectrum.
	ErrPixelIndex = errors.New("pixel index out of range")
)
