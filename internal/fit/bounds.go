package fit

import "math"

// bound maps between a bounded physical parameter and the unconstrained
// value the solver works on. A NaN limit means unbounded on that side.
type bound struct {
	min, max float64
}

func lower(min float64) bound { return bound{min: min, max: math.NaN()} }

func between(min, max float64) bound { return bound{min: min, max: max} }

// external converts a solver value to the physical parameter.
func (b bound) external(p float64) float64 {
	switch {
	case !math.IsNaN(b.min) && !math.IsNaN(b.max):
		return b.min + (math.Sin(p)+1)*(b.max-b.min)/2
	case !math.IsNaN(b.min):
		return b.min - 1 + math.Sqrt(p*p+1)
	}
	return p
}

// internal converts a physical parameter to a solver value, clamping it
// into the allowed range first.
func (b bound) internal(x float64) float64 {
	switch {
	case !math.IsNaN(b.min) && !math.IsNaN(b.max):
		x = math.Min(math.Max(x, b.min), b.max)
		return math.Asin(2*(x-b.min)/(b.max-b.min) - 1)
	case !math.IsNaN(b.min):
		x = math.Max(x, b.min)
		return math.Sqrt((x-b.min+1)*(x-b.min+1) - 1)
	}
	return x
}

// pinned reports whether x sits on one of the limits to within tol of the
// allowed span (or of unity for one-sided bounds).
func (b bound) pinned(x, tol float64) bool {
	scale := 1.0
	if !math.IsNaN(b.min) && !math.IsNaN(b.max) {
		scale = b.max - b.min
	}
	if !math.IsNaN(b.min) && x-b.min <= tol*scale {
		return true
	}
	return !math.IsNaN(b.max) && b.max-x <= tol*scale
}
