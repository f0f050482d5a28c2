// Package component models absorption components: groups of lines sharing a
// redshift and velocity range, the per-line usage mask, and the ordered
// registry a session edits.
package component

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/voigt"
)

// Line usage values held in Component.Mask.
const (
	MaskUnused  = 0 // excluded from the model and the fit
	MaskDisplay = 1 // drawn but not fitted
	MaskFit     = 2 // used for subsequent fitting
)

// Reliabilities lists the reliability tags a user may assign to a component.
var Reliabilities = []string{"None", "a", "b", "c"}

// ewConstant is the optically thin equivalent-width denominator, in cm^-1.
const ewConstant = 1.13e12

// Line is one transition bound to a component's kinematics.
type Line struct {
	linelist.Transition
	Z    float64    // redshift
	LogN float64    // log10 column density, cm^-2
	B    float64    // Doppler parameter, km/s
	VLim [2]float64 // analysis velocity window, km/s
}

// ObservedWave returns the line's observed wavelength in Angstrom.
func (l Line) ObservedWave() float64 {
	return l.Observed(l.Z)
}

// EW estimates the rest equivalent width in Angstrom assuming the line is
// optically thin.
func (l Line) EW() float64 {
	// f lambda^2 N / 1.13e12 is in cm when lambda is in cm; with lambda in
	// Angstrom the result is 1e-16 cm = 1e-8 Angstrom per unit.
	return l.F * l.Wrest * l.Wrest * math.Pow(10, l.LogN) / ewConstant * 1e-8
}

// Voigt returns the optical depth parameters of the line.
func (l Line) Voigt() voigt.Line {
	return voigt.Line{Wrest: l.Wrest, F: l.F, Gamma: l.Gamma, LogN: l.LogN, B: l.B, Z: l.Z}
}

// Attrib holds a component's fitted and user-assigned attributes.
type Attrib struct {
	LogN        float64
	B           float64 // km/s
	Z           float64
	Reliability string
	Comment     string
}

// Component is one kinematic absorber: lines sharing a redshift and a
// velocity window, plus a usage mask parallel to Lines.
type Component struct {
	Name   string
	Anchor linelist.Transition // transition the component was defined on
	Zcomp  float64
	VLim   [2]float64 // km/s relative to Zcomp
	Attrib Attrib
	Lines  []Line
	Mask   []int
}

// Warning is a non-fatal condition attached to a component.
type Warning struct {
	Component string
	Msg       string
}

// String formats the warning with its component name, when set.
func (w Warning) String() string {
	if w.Component == "" {
		return w.Msg
	}
	return w.Component + ": " + w.Msg
}

// New builds a component anchored on the catalog transition at wrest. Every
// transition of the anchor's species becomes a line at redshift z with the
// same velocity limits, all marked MaskFit.
func New(cat *linelist.Catalog, wrest, z float64, vlim [2]float64) (*Component, error) {
	if !(vlim[0] < vlim[1]) {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidVelocity, vlim[0], vlim[1])
	}
	anchor, err := cat.Lookup(wrest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTransitions, err)
	}
	trans, err := cat.AllTransitions(wrest)
	if err != nil {
		if errors.Is(err, linelist.ErrNoTransitions) {
			return nil, fmt.Errorf("%w: %w", ErrNoTransitions, err)
		}
		return nil, err
	}

	c := &Component{
		Anchor: anchor,
		Zcomp:  z,
		VLim:   vlim,
		Attrib: Attrib{Z: z, Reliability: "None", Comment: "None"},
		Lines:  make([]Line, len(trans)),
		Mask:   make([]int, len(trans)),
	}
	for i, t := range trans {
		c.Lines[i] = Line{Transition: t, Z: z, VLim: vlim}
		c.Mask[i] = MaskFit
	}
	c.Name = Name(z, anchor)
	return c, nil
}

// Name derives a component's display name from its redshift and anchor
// species, e.g. "z2.30000_HI" or "z1.20000_CII*".
func Name(z float64, anchor linelist.Transition) string {
	base := strings.TrimRight(anchor.Species(), "*")
	return fmt.Sprintf("z%.5f_%s%s", z, base, strings.Repeat("*", anchor.Stars()))
}

// Sync copies logN, b and z from the component attributes down to every line.
func (c *Component) Sync() {
	for i := range c.Lines {
		c.Lines[i].LogN = c.Attrib.LogN
		c.Lines[i].B = c.Attrib.B
		c.Lines[i].Z = c.Attrib.Z
	}
}

// Remask re-evaluates line usage against minEW (Angstrom). Lines below the
// threshold become MaskUnused; masked lines that pass are restored to
// MaskFit. Display-only lines that pass keep their value. A warning is
// returned when no line remains in use.
func (c *Component) Remask(minEW float64) []Warning {
	if len(c.Mask) != len(c.Lines) {
		c.Mask = resizeMask(c.Mask, len(c.Lines))
	}
	active := 0
	for i, l := range c.Lines {
		if l.EW() < minEW {
			c.Mask[i] = MaskUnused
			continue
		}
		if c.Mask[i] == MaskUnused {
			c.Mask[i] = MaskFit
		}
		active++
	}
	if active > 0 {
		return nil
	}
	return []Warning{{
		Component: c.Name,
		Msg:       fmt.Sprintf("no line has estimated EW >= %g A; consider a lower minimum EW", minEW),
	}}
}

// resizeMask pads with MaskFit or truncates so the mask matches the lines.
func resizeMask(mask []int, n int) []int {
	out := make([]int, n)
	for i := range out {
		if i < len(mask) {
			out[i] = mask[i]
		} else {
			out[i] = MaskFit
		}
	}
	return out
}

// Active returns the lines whose mask is not MaskUnused.
func (c *Component) Active() []Line {
	var out []Line
	for i, l := range c.Lines {
		if c.Mask[i] != MaskUnused {
			out = append(out, l)
		}
	}
	return out
}

// ZLimits returns the redshifts of the component's velocity limits.
func (c *Component) ZLimits() (zmin, zmax float64) {
	return ZFromVelocity(c.Zcomp, c.VLim[0]), ZFromVelocity(c.Zcomp, c.VLim[1])
}

// ZFromVelocity shifts redshift z by velocity v (km/s).
func ZFromVelocity(z, v float64) float64 {
	return z + v*(1+z)/spectrum.C
}

// VelocityOffset returns the velocity (km/s) of redshift zcomp as seen from
// redshift z, c (z - zcomp) / (1 + z).
func VelocityOffset(z, zcomp float64) float64 {
	return spectrum.C * (z - zcomp) / (1 + z)
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	out := *c
	out.Lines = append([]Line(nil), c.Lines...)
	out.Mask = append([]int(nil), c.Mask...)
	return &out
}
