package component

import (
	"fmt"
	"math"
)

// anchorTolerance is how close (Angstrom) a panel's rest wavelength must be
// to a component's anchor for the component to belong to that panel.
const anchorTolerance = 1e-3

// Registry is the ordered, name-keyed set of components for one spectrum.
// Insertion order is display order. A Registry is not safe for concurrent
// use; the session serializes access.
type Registry struct {
	comps []*Component
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of components.
func (r *Registry) Len() int {
	return len(r.comps)
}

// Add appends c. Names must be unique.
func (r *Registry) Add(c *Component) error {
	if r.index(c.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
	}
	r.comps = append(r.comps, c)
	return nil
}

// Remove deletes the named component and returns it.
func (r *Registry) Remove(name string) (*Component, error) {
	i := r.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	c := r.comps[i]
	r.comps = append(r.comps[:i], r.comps[i+1:]...)
	return c, nil
}

// Get returns the named component.
func (r *Registry) Get(name string) (*Component, bool) {
	i := r.index(name)
	if i < 0 {
		return nil, false
	}
	return r.comps[i], true
}

// Has reports whether a component with the name is registered.
func (r *Registry) Has(name string) bool {
	return r.index(name) >= 0
}

// All returns the components in display order. The slice is a copy; the
// components are shared.
func (r *Registry) All() []*Component {
	return append([]*Component(nil), r.comps...)
}

// Names returns component names in display order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.comps))
	for i, c := range r.comps {
		names[i] = c.Name
	}
	return names
}

// Anchored returns the components whose anchor transition is at wrest.
func (r *Registry) Anchored(wrest float64) []*Component {
	var out []*Component
	for _, c := range r.comps {
		if math.Abs(c.Anchor.Wrest-wrest) < anchorTolerance {
			out = append(out, c)
		}
	}
	return out
}

// Nearest returns the component anchored at wrest whose redshift lies closest
// to a cursor at velocity v (km/s) in a panel centred on redshift z. Exact
// ties go to the component registered first.
func (r *Registry) Nearest(wrest, z, v float64) (*Component, bool) {
	var best *Component
	bestDist := math.Inf(1)
	for _, c := range r.Anchored(wrest) {
		d := math.Abs(VelocityOffset(z, c.Zcomp) + v)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != nil
}

func (r *Registry) index(name string) int {
	for i, c := range r.comps {
		if c.Name == name {
			return i
		}
	}
	return -1
}
