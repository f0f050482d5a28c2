// Package fit estimates initial guesses for an absorption component and
// refines its column density, Doppler parameter and redshift with a bounded
// Levenberg-Marquardt fit of a single Voigt profile.
package fit

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/optimize"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/voigt"
)

// Parameter limits applied to every fit.
const (
	MinLogN = 10.0 // log cm^-2
	MinB    = 1.0  // km/s

	minLogNGuess = 11.0
	pinnedTol    = 1e-6
)

// Engine fits components against a normalized spectrum.
type Engine struct {
	FWHM          float64 // instrumental FWHM in pixels
	MinEW         float64 // masking threshold applied after the fit, Angstrom
	MaxIterations int
	ObjectiveTol  float64
}

// NewEngine returns an engine with the default solver settings.
func NewEngine(fwhm, minEW float64) *Engine {
	return &Engine{FWHM: fwhm, MinEW: minEW, MaxIterations: 200, ObjectiveTol: 1e-12}
}

// Params are the three fitted quantities.
type Params struct {
	LogN float64
	B    float64 // km/s
	Z    float64
}

// Result describes one fit.
type Result struct {
	Guess     Params
	Params    Params
	Pixels    [2]int // inclusive analysis pixel range
	Cost      float64
	Status    optimize.Status // solver termination; StepConvergence on success
	Converged bool
	Warnings  []component.Warning
}

// Fit fits c's anchor transition over its velocity window, stores the
// parameters in c.Attrib, then syncs and re-masks c. A fit that fails or
// ends on a parameter limit is reported through Result.Converged and a
// warning; on solver failure the initial guesses are stored instead.
func (e *Engine) Fit(c *component.Component, spec *spectrum.Spectrum) (Result, error) {
	lo, hi, ok := spec.PixVelocity(c.Zcomp, c.Anchor.Wrest, c.VLim)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s outside spectral coverage", ErrEmptyRange, c.Name)
	}
	// The model spans the contiguous window; bad pixels drop out of the
	// residual only.
	wave := spec.Wave[lo : hi+1]
	var good []int
	for i := lo; i <= hi; i++ {
		if !spec.BadPixels[i] {
			good = append(good, i-lo)
		}
	}
	if len(good) < 3 {
		return Result{}, fmt.Errorf("%w: %s has %d usable pixels", ErrEmptyRange, c.Name, len(good))
	}
	flux := make([]float64, len(good))
	for k, j := range good {
		flux[k] = spec.Flux[lo+j]
	}

	zmin, zmax := c.ZLimits()
	bounds := [3]bound{lower(MinLogN), lower(MinB), between(zmin, zmax)}
	res := Result{Pixels: [2]int{lo, hi}, Guess: e.guess(c, spec, lo, hi, zmin, zmax)}

	profile := func(p Params) []float64 {
		l := voigt.Line{Wrest: c.Anchor.Wrest, F: c.Anchor.F, Gamma: c.Anchor.Gamma, LogN: p.LogN, B: p.B, Z: p.Z}
		return voigt.Profile(wave, l, e.FWHM)
	}
	external := func(x []float64) Params {
		return Params{LogN: bounds[0].external(x[0]), B: bounds[1].external(x[1]), Z: bounds[2].external(x[2])}
	}
	residual := func(dst, x []float64) {
		m := profile(external(x))
		for k, j := range good {
			dst[k] = flux[k] - m[j]
		}
	}

	init := []float64{
		bounds[0].internal(res.Guess.LogN),
		bounds[1].internal(res.Guess.B),
		bounds[2].internal(res.Guess.Z),
	}
	jac := lm.NumJac{Func: residual}
	problem := lm.LMProblem{
		Dim:        3,
		Size:       len(good),
		Func:       residual,
		Jac:        jac.Jac,
		InitParams: init,
		Tau:        1e-3,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	out, err := solve(problem, &lm.Settings{Iterations: e.MaxIterations, ObjectiveTol: e.ObjectiveTol})

	res.Params = res.Guess
	res.Converged = true
	switch {
	case err != nil:
		res.Converged = false
		res.Warnings = append(res.Warnings, warn(c, "fit failed (%v); keeping initial guesses", err))
	case len(out.X) != 3:
		res.Converged = false
		res.Warnings = append(res.Warnings, warn(c, "fit returned no solution; keeping initial guesses"))
	default:
		p := external(out.X)
		if math.IsNaN(p.LogN) || math.IsNaN(p.B) || math.IsNaN(p.Z) {
			res.Converged = false
			res.Warnings = append(res.Warnings, warn(c, "fit diverged; keeping initial guesses"))
			break
		}
		res.Params = p
		res.Status = out.Status
		if out.Status != optimize.StepConvergence {
			res.Converged = false
			res.Warnings = append(res.Warnings, warn(c, "fit did not converge (%s after at most %d iterations)", out.Status, e.MaxIterations))
		}
		vals := [3]float64{p.LogN, p.B, p.Z}
		for i, name := range []string{"logN", "b", "z"} {
			if bounds[i].pinned(vals[i], pinnedTol) {
				res.Converged = false
				res.Warnings = append(res.Warnings, warn(c, "fit stopped at the %s limit (%s = %.5g)", name, name, vals[i]))
			}
		}
	}
	res.Cost = cost(flux, profile(res.Params), good)
	if math.IsNaN(res.Cost) || math.IsInf(res.Cost, 0) {
		res.Converged = false
		res.Warnings = append(res.Warnings, warn(c, "fit cost is not finite"))
	}

	c.Attrib.LogN = res.Params.LogN
	c.Attrib.B = res.Params.B
	c.Attrib.Z = res.Params.Z
	c.Sync()
	res.Warnings = append(res.Warnings, c.Remask(e.MinEW)...)
	return res, nil
}

// guess derives starting values: z at the flux minimum, b from half the
// window width and logN from the apparent optical depth.
func (e *Engine) guess(c *component.Component, spec *spectrum.Spectrum, lo, hi int, zmin, zmax float64) Params {
	imin := lo
	for i := lo; i <= hi; i++ {
		if spec.BadPixels[i] {
			continue
		}
		if spec.BadPixels[imin] || spec.Flux[i] < spec.Flux[imin] {
			imin = i
		}
	}
	z := spec.Wave[imin]/c.Anchor.Wrest - 1
	margin := 0.01 * (zmax - zmin)
	z = math.Min(math.Max(z, zmin+margin), zmax-margin)

	b := math.Max(0.5*(c.VLim[1]-c.VLim[0]), 2*MinB)

	logN := minLogNGuess
	if n := AODM(spec, c.Anchor, c.Zcomp, lo, hi); n > 0 {
		logN = math.Max(math.Log10(n), minLogNGuess)
	}
	return Params{LogN: logN, B: b, Z: z}
}

// cost is half the summed squared residual of the good pixels; good indexes
// model and pairs with flux.
func cost(flux, model []float64, good []int) float64 {
	var s float64
	for k, j := range good {
		d := flux[k] - model[j]
		s += d * d
	}
	return 0.5 * s
}

// solve runs the solver, turning its panic on a singular normal matrix
// into an error.
func solve(problem lm.LMProblem, settings *lm.Settings) (res *lm.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("levenberg-marquardt: %v", r)
		}
	}()
	return lm.LM(problem, settings)
}

func warn(c *component.Component, format string, args ...any) component.Warning {
	return component.Warning{Component: c.Name, Msg: fmt.Sprintf(format, args...)}
}
