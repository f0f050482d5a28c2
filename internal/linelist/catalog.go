package linelist

import (
	"fmt"
	"math"
	"sort"
)

// Line list names understood by Catalog.List.
const (
	ListISM    = "ISM"
	ListStrong = "Strong"
	ListHI     = "HI"
)

// wrestTolerance is the matching tolerance, in Angstrom, for rest wavelength lookups.
const wrestTolerance = 1e-3

// Element carries the solar abundance used to rank transitions by strength.
type Element struct {
	Symbol    string  `toml:"symbol"`
	Z         int     `toml:"z"`
	Abundance float64 `toml:"abundance"` // log10 number abundance with H = 12
}

// Catalog is an immutable, wavelength-ordered set of transitions.
// It is safe for concurrent reads.
type Catalog struct {
	transitions []Transition
	abundance   map[int]float64
}

// NewCatalog validates the transitions and returns a catalog sorted by rest
// wavelength.
func NewCatalog(transitions []Transition, elements []Element) (*Catalog, error) {
	c := &Catalog{
		transitions: make([]Transition, 0, len(transitions)),
		abundance:   make(map[int]float64, len(elements)),
	}
	for _, e := range elements {
		c.abundance[e.Z] = e.Abundance
	}
	for _, t := range transitions {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("transition %q: %w", t.Name, err)
		}
		if t.Ion == "" {
			t.Ion = t.Species()
		}
		c.transitions = append(c.transitions, t)
	}
	sort.SliceStable(c.transitions, func(i, j int) bool {
		return c.transitions[i].Wrest < c.transitions[j].Wrest
	})
	return c, nil
}

// Len returns the number of transitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.transitions)
}

// Transitions returns a copy of every transition, ordered by rest wavelength.
func (c *Catalog) Transitions() []Transition {
	out := make([]Transition, len(c.transitions))
	copy(out, c.transitions)
	return out
}

// Strength ranks a transition as log10(f * wrest) plus the solar abundance of
// its element. HI Lyman-alpha scores about 14.7.
func (c *Catalog) Strength(t Transition) float64 {
	if t.F <= 0 {
		return math.Inf(-1)
	}
	return math.Log10(t.F*t.Wrest) + c.abundance[t.Z]
}

// Lookup returns the transition whose rest wavelength matches wrest.
func (c *Catalog) Lookup(wrest float64) (Transition, error) {
	i := sort.Search(len(c.transitions), func(i int) bool {
		return c.transitions[i].Wrest >= wrest-wrestTolerance
	})
	if i < len(c.transitions) && math.Abs(c.transitions[i].Wrest-wrest) <= wrestTolerance {
		return c.transitions[i], nil
	}
	return Transition{}, fmt.Errorf("%w: %.4f A", ErrUnknownTransition, wrest)
}

// ByName returns the transition with the given name, e.g. "CIV 1548".
func (c *Catalog) ByName(name string) (Transition, error) {
	for _, t := range c.transitions {
		if t.Name == name {
			return t, nil
		}
	}
	return Transition{}, fmt.Errorf("%w: %s", ErrUnknownTransition, name)
}

// AllTransitions returns every transition sharing the species of the
// transition at wrest, the anchor included, ordered by rest wavelength.
func (c *Catalog) AllTransitions(wrest float64) ([]Transition, error) {
	anchor, err := c.Lookup(wrest)
	if err != nil {
		return nil, err
	}
	var out []Transition
	for _, t := range c.transitions {
		if t.Species() == anchor.Species() {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: species %s", ErrNoTransitions, anchor.Species())
	}
	return out, nil
}

// List returns the transitions of a named line list. ISM holds everything
// ordered by wavelength, Strong the flagged subset, and HI the Lyman series
// from Lyman-alpha downward.
func (c *Catalog) List(name string) ([]Transition, error) {
	var out []Transition
	switch name {
	case ListISM:
		out = c.Transitions()
	case ListStrong:
		for _, t := range c.transitions {
			if t.Strong {
				out = append(out, t)
			}
		}
	case ListHI:
		for i := len(c.transitions) - 1; i >= 0; i-- {
			if c.transitions[i].Species() == "HI" {
				out = append(out, c.transitions[i])
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, name)
	}
	return out, nil
}

// Available returns the transitions of list whose rest wavelength lies in
// [wvlo, wvhi] and whose strength is at least minStrength. Transitions are
// grouped by species, strongest species first and strongest transition first
// within a species; nMaxTuple > 0 caps the count per species.
func (c *Catalog) Available(list string, wvlo, wvhi float64, nMaxTuple int, minStrength float64) ([]Transition, error) {
	base, err := c.List(list)
	if err != nil {
		return nil, err
	}

	var cands []Transition
	for _, t := range base {
		if t.Wrest < wvlo || t.Wrest > wvhi {
			continue
		}
		if c.Strength(t) < minStrength {
			continue
		}
		cands = append(cands, t)
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w in %.2f-%.2f A", ErrNoTransitions, wvlo, wvhi)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return c.Strength(cands[i]) > c.Strength(cands[j])
	})

	var order []string
	groups := make(map[string][]Transition)
	for _, t := range cands {
		sp := t.Species()
		if _, seen := groups[sp]; !seen {
			order = append(order, sp)
		}
		if nMaxTuple > 0 && len(groups[sp]) >= nMaxTuple {
			continue
		}
		groups[sp] = append(groups[sp], t)
	}

	out := make([]Transition, 0, len(cands))
	for _, sp := range order {
		out = append(out, groups[sp]...)
	}
	return out, nil
}
