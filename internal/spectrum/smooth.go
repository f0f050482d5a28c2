package spectrum

import (
	"fmt"
	"math"
)

// BoxSmooth smooths the spectrum with a boxcar of nbox pixels and returns a
// new spectrum; the receiver is not modified.
//
// With preserve false the spectrum is rebinned: every nbox pixels are
// averaged into one, trailing pixels that do not fill a box are dropped, and
// the uncertainty shrinks by sqrt(nbox). With preserve true the pixel grid is
// kept and each pixel is replaced by the mean over the box centred on it,
// truncated at the spectrum edges. Bad pixels are not carried over.
func (s *Spectrum) BoxSmooth(nbox int, preserve bool) (*Spectrum, error) {
	if nbox < 1 {
		return nil, fmt.Errorf("box size must be positive, got %d", nbox)
	}
	if preserve {
		return s.boxConvolve(nbox)
	}
	nout := s.Len() / nbox
	if nout == 0 {
		return nil, fmt.Errorf("%w: box of %d pixels exceeds spectrum length %d", ErrEmpty, nbox, s.Len())
	}
	wave := make([]float64, nout)
	flux := make([]float64, nout)
	sig := make([]float64, nout)
	norm := 1 / float64(nbox)
	for j := range nout {
		var w, f, e float64
		for k := j * nbox; k < (j+1)*nbox; k++ {
			w += s.Wave[k]
			f += s.Flux[k]
			e += s.Sig[k]
		}
		wave[j] = w * norm
		flux[j] = f * norm
		sig[j] = e * norm / math.Sqrt(float64(nbox))
	}
	return New(s.Filename, wave, flux, sig)
}

func (s *Spectrum) boxConvolve(nbox int) (*Spectrum, error) {
	n := s.Len()
	flux := make([]float64, n)
	sig := make([]float64, n)
	half := nbox / 2
	for i := range n {
		lo := max(0, i-half)
		hi := min(n-1, i-half+nbox-1)
		var f, e float64
		for k := lo; k <= hi; k++ {
			f += s.Flux[k]
			e += s.Sig[k]
		}
		cnt := float64(hi - lo + 1)
		flux[i] = f / cnt
		sig[i] = e / cnt
	}
	wave := make([]float64, n)
	copy(wave, s.Wave)
	return New(s.Filename, wave, flux, sig)
}
