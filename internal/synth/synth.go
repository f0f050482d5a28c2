// Package synth computes the combined absorption model of every active
// component line over a whole spectrum, with optional residual arrays for
// display.
package synth

import (
	"math"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/voigt"
)

// residualScale places residuals near zero flux on a normalized plot.
const residualScale = 0.02

// Model is the synthesized spectrum, one value per spectrum pixel.
type Model struct {
	Flux          []float64
	Residual      []float64 // (flux - model) scaled; nil when residuals are off
	ResidualLimit []float64 // sig scaled like Residual
}

// Synthesizer recomputes a Model from a registry. It owns the model buffers
// and rewrites them in place.
type Synthesizer struct {
	FWHM      float64 // instrumental FWHM in pixels
	Residuals bool

	model Model
}

// New returns a synthesizer for the given FWHM.
func New(fwhm float64, residuals bool) *Synthesizer {
	return &Synthesizer{FWHM: fwhm, Residuals: residuals}
}

// Model returns the most recently computed model.
func (s *Synthesizer) Model() *Model {
	return &s.model
}

// Lines returns every line with a non-zero mask whose observed wavelength
// falls inside the spectrum's coverage, in registry order.
func Lines(reg *component.Registry, spec *spectrum.Spectrum) []voigt.Line {
	lo, hi := spec.Coverage()
	var out []voigt.Line
	for _, c := range reg.All() {
		for i, l := range c.Lines {
			if c.Mask[i] == component.MaskUnused {
				continue
			}
			if w := l.ObservedWave(); w > lo && w < hi {
				out = append(out, l.Voigt())
			}
		}
	}
	return out
}

// Recompute rebuilds the model from scratch. An empty registry yields unit
// flux. The result depends only on the registry and spectrum contents.
func (s *Synthesizer) Recompute(reg *component.Registry, spec *spectrum.Spectrum) *Model {
	n := spec.Len()
	if len(s.model.Flux) != n {
		s.model.Flux = make([]float64, n)
	}
	if lines := Lines(reg, spec); len(lines) > 0 {
		copy(s.model.Flux, voigt.Model(spec.Wave, lines, s.FWHM))
	} else {
		for i := range s.model.Flux {
			s.model.Flux[i] = 1
		}
	}

	if !s.Residuals {
		s.model.Residual, s.model.ResidualLimit = nil, nil
		return &s.model
	}
	if len(s.model.Residual) != n {
		s.model.Residual = make([]float64, n)
		s.model.ResidualLimit = make([]float64, n)
	}
	k := ResidualFactor(spec)
	for i := range n {
		s.model.Residual[i] = (spec.Flux[i] - s.model.Flux[i]) * k
		s.model.ResidualLimit[i] = spec.Sig[i] * k
	}
	return &s.model
}

// ResidualFactor returns 0.02 / median(sig), or zero when the spectrum has
// no positive uncertainties.
func ResidualFactor(spec *spectrum.Spectrum) float64 {
	med := spec.MedianSig()
	if med <= 0 || math.IsNaN(med) {
		return 0
	}
	return residualScale / med
}
