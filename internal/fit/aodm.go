package fit

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
)

// aodmConstant converts the apparent optical depth integral to a column
// density: N = 3.768e14 / (f lambda[A]) * int tau_a dv[km/s].
const aodmConstant = 3.768e14

// minFlux keeps ln(1/flux) finite in saturated or negative pixels.
const minFlux = 1e-3

// AODM returns the apparent optical depth column density (cm^-2) of t at
// redshift z over the pixel range [lo, hi]. Saturated pixels are clamped to
// their uncertainty, so the result is a lower limit for strong lines.
func AODM(spec *spectrum.Spectrum, t linelist.Transition, z float64, lo, hi int) float64 {
	if hi-lo < 1 {
		return 0
	}
	wvobs := t.Observed(z)
	n := hi - lo + 1
	vel := make([]float64, n)
	tau := make([]float64, n)
	for k := range n {
		i := lo + k
		vel[k] = (spec.Wave[i] - wvobs) * spectrum.C / wvobs
		fx := math.Max(math.Max(spec.Flux[i], spec.Sig[i]), minFlux)
		tau[k] = math.Log(1 / fx)
	}
	return aodmConstant / (t.F * t.Wrest) * integrate.Trapezoidal(vel, tau)
}
