// Package spectrum holds a continuum-normalized 1-D spectrum and the pixel
// and velocity helpers the fitting and display code work with.
package spectrum

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// C is the speed of light in km/s.
const C = 299792.458

// Spectrum is a normalized spectrum plus a mutable bad-pixel mask.
// Wave, Flux and Sig are treated as immutable once constructed; BadPixels is
// toggled by the user and persisted with the guesses.
type Spectrum struct {
	Filename  string
	Wave      []float64 // Angstrom, strictly increasing
	Flux      []float64 // continuum normalized
	Sig       []float64 // 1-sigma uncertainty, same normalization as Flux
	BadPixels []bool
}

// New validates the arrays and returns a spectrum. NaN uncertainties are
// replaced by zero so residual displays stay finite. A nil sig is treated as
// all zeros.
func New(filename string, wave, flux, sig []float64) (*Spectrum, error) {
	if len(wave) == 0 {
		return nil, ErrEmpty
	}
	if sig == nil {
		sig = make([]float64, len(wave))
	}
	if len(flux) != len(wave) || len(sig) != len(wave) {
		return nil, fmt.Errorf("%w: wave=%d flux=%d sig=%d", ErrLengthMismatch, len(wave), len(flux), len(sig))
	}
	for i := 1; i < len(wave); i++ {
		if !(wave[i] > wave[i-1]) {
			return nil, fmt.Errorf("%w at pixel %d", ErrUnsorted, i)
		}
	}
	s := &Spectrum{
		Filename:  filename,
		Wave:      wave,
		Flux:      flux,
		Sig:       make([]float64, len(sig)),
		BadPixels: make([]bool, len(wave)),
	}
	for i, v := range sig {
		if math.IsNaN(v) {
			v = 0
		}
		s.Sig[i] = v
	}
	return s, nil
}

// Len returns the number of pixels.
func (s *Spectrum) Len() int {
	return len(s.Wave)
}

// Coverage returns the minimum and maximum wavelength.
func (s *Spectrum) Coverage() (lo, hi float64) {
	return floats.Min(s.Wave), floats.Max(s.Wave)
}

// InCoverage reports whether wv lies inside the spectrum's wavelength range.
func (s *Spectrum) InCoverage(wv float64) bool {
	lo, hi := s.Coverage()
	return wv >= lo && wv <= hi
}

// Nearest returns argmin |wave - wv|. Ties resolve to the lower index.
func (s *Spectrum) Nearest(wv float64) int {
	n := len(s.Wave)
	i := sort.SearchFloat64s(s.Wave, wv)
	switch {
	case i == 0:
		return 0
	case i >= n:
		return n - 1
	}
	if wv-s.Wave[i-1] <= s.Wave[i]-wv {
		return i - 1
	}
	return i
}

// PixMinMax returns the inclusive pixel range whose edges are nearest to
// wvlo and wvhi. ok is false when the window does not overlap the spectrum.
func (s *Spectrum) PixMinMax(wvlo, wvhi float64) (lo, hi int, ok bool) {
	if wvlo > wvhi {
		wvlo, wvhi = wvhi, wvlo
	}
	cmin, cmax := s.Coverage()
	if wvhi < cmin || wvlo > cmax {
		return 0, -1, false
	}
	return s.Nearest(wvlo), s.Nearest(wvhi), true
}

// VelocityWindow converts a velocity window (km/s) around a transition at
// redshift z into observed wavelengths.
func VelocityWindow(z, wrest float64, vlim [2]float64) (lo, hi float64) {
	obs := (1 + z) * wrest
	return obs * (1 + vlim[0]/C), obs * (1 + vlim[1]/C)
}

// PixVelocity returns the inclusive pixel range covering vlim around the
// transition wrest at redshift z.
func (s *Spectrum) PixVelocity(z, wrest float64, vlim [2]float64) (lo, hi int, ok bool) {
	wlo, whi := VelocityWindow(z, wrest, vlim)
	return s.PixMinMax(wlo, whi)
}

// RelativeVelocity returns the velocity of every pixel relative to wvobs, in km/s.
func (s *Spectrum) RelativeVelocity(wvobs float64) []float64 {
	v := make([]float64, len(s.Wave))
	for i, w := range s.Wave {
		v[i] = (w - wvobs) * C / wvobs
	}
	return v
}

// SetBad marks (bad=true) or clears pixels strictly between wlo and whi and
// returns how many pixels fell in the range.
func (s *Spectrum) SetBad(wlo, whi float64, bad bool) int {
	if wlo > whi {
		wlo, whi = whi, wlo
	}
	n := 0
	for i, w := range s.Wave {
		if w > wlo && w < whi {
			s.BadPixels[i] = bad
			n++
		}
	}
	return n
}

// BadIndices returns the indices of all bad pixels in increasing order.
func (s *Spectrum) BadIndices() []int {
	var idx []int
	for i, b := range s.BadPixels {
		if b {
			idx = append(idx, i)
		}
	}
	return idx
}

// ApplyBadIndices marks the given pixel indices as bad.
func (s *Spectrum) ApplyBadIndices(idx []int) error {
	for _, i := range idx {
		if i < 0 || i >= len(s.BadPixels) {
			return fmt.Errorf("%w: %d (spectrum has %d pixels)", ErrPixelIndex, i, len(s.BadPixels))
		}
	}
	for _, i := range idx {
		s.BadPixels[i] = true
	}
	return nil
}

// MedianSig returns the median of the positive uncertainties, or zero if
// there are none.
func (s *Spectrum) MedianSig() float64 {
	var pos []float64
	for _, v := range s.Sig {
		if v > 0 {
			pos = append(pos, v)
		}
	}
	if len(pos) == 0 {
		return 0
	}
	sort.Float64s(pos)
	n := len(pos)
	if n%2 == 1 {
		return pos[n/2]
	}
	return 0.5 * (pos[n/2-1] + pos[n/2])
}
