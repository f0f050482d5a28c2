// Package linelist provides the atomic transition catalog used to build
// absorption components and to decide which transitions are displayed.
package linelist

import (
	"math"
	"strings"
)

// Transition is an immutable atomic datum for one absorption transition.
type Transition struct {
	Name   string  `toml:"name"`   // e.g. "CIV 1548"
	Ion    string  `toml:"ion"`    // species identifier, e.g. "CIV" or "CII*"
	Wrest  float64 `toml:"wrest"`  // rest wavelength in Angstrom
	F      float64 `toml:"f"`      // oscillator strength
	Gamma  float64 `toml:"gamma"`  // damping constant in s^-1
	Ej     float64 `toml:"ej"`     // upper-level energy in cm^-1; nonzero for fine-structure lines
	Z      int     `toml:"z"`      // atomic number
	Strong bool    `toml:"strong"` // member of the Strong list
}

// Species returns the ion part of the transition name, keeping any
// fine-structure markers ("CII*").
func (t Transition) Species() string {
	if t.Ion != "" {
		return t.Ion
	}
	if i := strings.IndexByte(t.Name, ' '); i > 0 {
		return t.Name[:i]
	}
	return t.Name
}

// FineStructure reports whether the transition arises from an excited level.
func (t Transition) FineStructure() bool {
	return t.Ej > 0
}

// Stars returns the number of excited sub-level markers in the species name.
// It is zero for ground-state transitions.
func (t Transition) Stars() int {
	if !t.FineStructure() {
		return 0
	}
	return strings.Count(t.Species(), "*")
}

// Observed returns the observed-frame wavelength at redshift z.
func (t Transition) Observed(z float64) float64 {
	return (1 + z) * t.Wrest
}

func (t Transition) validate() error {
	switch {
	case t.Name == "":
		return ErrInvalidTransition
	case t.Wrest <= 0 || math.IsNaN(t.Wrest):
		return ErrInvalidTransition
	case t.F < 0:
		return ErrInvalidTransition
	}
	return nil
}
