// Package voigt evaluates Voigt absorption profiles on a wavelength grid,
// including the Gaussian instrumental smoothing applied before comparison
// with data.
package voigt

import (
	"math"
	"math/cmplx"
)

const (
	cCGS      = 2.99792458e10 // cm/s
	sigmaLine = 0.026540081 / math.SqrtPi // pi e^2 / (m_e c) / sqrt(pi), cm^2 Hz
	angstrom  = 1e-8          // cm
)

// Line holds what the optical depth of one transition depends on.
type Line struct {
	Wrest float64 // rest wavelength, Angstrom
	F     float64 // oscillator strength
	Gamma float64 // damping constant, s^-1
	LogN  float64 // log10 column density, cm^-2
	B     float64 // Doppler parameter, km/s
	Z     float64 // redshift
}

// H returns the Voigt-Hjerting function H(a, u), the real part of the
// Faddeeva function w(u + ia), using Humlicek's W4 rational approximation.
func H(a, u float64) float64 {
	return real(faddeeva(u, a))
}

func faddeeva(x, y float64) complex128 {
	t := complex(y, -x)
	s := math.Abs(x) + y
	switch {
	case s >= 15:
		return t * 0.5641896 / (0.5 + t*t)
	case s >= 5.5:
		u := t * t
		return t * (1.410474 + u*0.5641896) / (0.75 + u*(3+u))
	case y >= 0.195*math.Abs(x)-0.176:
		num := 16.4955 + t*(20.20933+t*(11.96482+t*(3.778987+t*0.5642236)))
		den := 16.4955 + t*(38.82363+t*(39.27121+t*(21.69274+t*(6.699398+t))))
		return num / den
	}
	u := t * t
	num := t * (36183.31 - u*(3321.9905-u*(1540.787-u*(219.0313-u*(35.76683-u*(1.320522-u*0.56419))))))
	den := 32066.6 - u*(24322.84-u*(9022.228-u*(2186.181-u*(364.2191-u*(61.57037-u*(1.841439-u))))))
	return cmplx.Exp(u) - num/den
}

// AddTau adds the optical depth of l at every wavelength (Angstrom) of wave
// into tau. Lines with non-positive b contribute nothing.
func AddTau(tau, wave []float64, l Line) {
	if l.B <= 0 || l.Wrest <= 0 {
		return
	}
	lam0 := l.Wrest * angstrom
	nu0 := cCGS / lam0
	dnuD := l.B * 1e5 / lam0
	a := l.Gamma / (4 * math.Pi * dnuD)
	norm := math.Pow(10, l.LogN) * sigmaLine * l.F / dnuD
	for i, w := range wave {
		nu := cCGS * (1 + l.Z) / (w * angstrom)
		u := (nu - nu0) / dnuD
		tau[i] += norm * H(a, u)
	}
}

// Model returns exp(-sum tau) for all lines on the grid, smoothed by a
// Gaussian of FWHM fwhm pixels. With no lines it returns all ones.
func Model(wave []float64, lines []Line, fwhm float64) []float64 {
	tau := make([]float64, len(wave))
	for _, l := range lines {
		AddTau(tau, wave, l)
	}
	flux := make([]float64, len(wave))
	for i, t := range tau {
		flux[i] = math.Exp(-t)
	}
	if len(lines) == 0 {
		return flux
	}
	return Convolve(flux, fwhm)
}

// Profile returns the smoothed absorption profile of a single line.
func Profile(wave []float64, l Line, fwhm float64) []float64 {
	return Model(wave, []Line{l}, fwhm)
}

// Convolve smooths flux with a Gaussian of FWHM fwhm pixels, truncated at
// four sigma. Weights are renormalized near the edges of the array. A
// non-positive fwhm returns an unsmoothed copy.
func Convolve(flux []float64, fwhm float64) []float64 {
	out := make([]float64, len(flux))
	sigma := fwhm / (2 * math.Sqrt(2*math.Ln2))
	if sigma <= 0 {
		copy(out, flux)
		return out
	}
	half := int(math.Ceil(4 * sigma))
	kernel := make([]float64, 2*half+1)
	for k := range kernel {
		d := float64(k - half)
		kernel[k] = math.Exp(-0.5 * d * d / (sigma * sigma))
	}
	n := len(flux)
	for i := range n {
		var sum, wsum float64
		for k, w := range kernel {
			j := i + k - half
			if j < 0 || j >= n {
				continue
			}
			sum += w * flux[j]
			wsum += w
		}
		out[i] = sum / wsum
	}
	return out
}
