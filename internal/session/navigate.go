package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/telemetry"
)

// lookupAvailable lists the transitions of list whose observed wavelength at
// z falls inside the spectrum.
func (c *Controller) lookupAvailable(z float64, list string) ([]linelist.Transition, error) {
	lo, hi := c.spec.Coverage()
	return c.cat.Available(list, lo/(1+z), hi/(1+z), c.cfg.NMaxTuple, c.cfg.MinStrength)
}

func (c *Controller) perPage() int {
	return c.rows * c.cols
}

// clampIndex keeps the page start inside the available list.
func (c *Controller) clampIndex() {
	if len(c.available) <= c.perPage() || c.idx >= len(c.available) {
		c.idx = 0
	}
}

// page lays the current transitions out column-major: panel jj sits at row
// jj % rows, column jj / rows.
func (c *Controller) page() []Slot {
	start := c.idx
	if len(c.available) <= c.perPage() {
		start = 0
	}
	var out []Slot
	for jj := 0; jj < c.perPage(); jj++ {
		k := start + jj
		if k >= len(c.available) {
			break
		}
		out = append(out, Slot{Transition: c.available[k], Row: jj % c.rows, Col: jj / c.rows})
	}
	return out
}

// slot returns the panel under the cursor.
func (c *Controller) slot(cur Cursor) (Slot, error) {
	p := c.page()
	if cur.Panel < 0 || cur.Panel >= len(p) {
		return Slot{}, ErrNoCursor
	}
	return p[cur.Panel], nil
}

// cursorWave maps the cursor to an observed wavelength and rejects positions
// outside the spectrum.
func (c *Controller) cursorWave(cur Cursor) (Slot, float64, error) {
	s, err := c.slot(cur)
	if err != nil {
		return Slot{}, 0, err
	}
	w := s.Transition.Observed(c.z) * (1 + cur.Velocity/spectrum.C)
	if !c.spec.InCoverage(w) {
		return Slot{}, 0, fmt.Errorf("%w: %.2f A", ErrOutOfBounds, w)
	}
	return s, w, nil
}

// setRedshift moves to z with the given line list. Nothing changes when no
// transition would be visible there.
func (c *Controller) setRedshift(z float64, list string, out *Outcome) error {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= -1 {
		return fmt.Errorf("%w: redshift %g", ErrBadEntry, z)
	}
	avail, err := c.lookupAvailable(z, list)
	if err != nil {
		return err
	}
	listChanged := list != c.list
	c.z, c.list, c.available = z, list, avail
	if listChanged {
		c.idx = 0
	}
	c.clampIndex()
	c.xlim = c.cfg.VelocityWindow
	c.emit(telemetry.KindRedshiftChanged, "", map[string]any{"z": z, "list": list})
	out.say("z = %.5f (%d %s transitions)", z, len(avail), list)
	c.recompute(out)
	return nil
}

// zoomX centres the x window on the cursor (or the window centre) with the
// given half width as a fraction of the current width.
func zoomX(frac float64) handler {
	return func(c *Controller, cmd Command, out *Outcome) error {
		centre := (c.xlim[0] + c.xlim[1]) / 2
		if _, err := c.slot(cmd.Cursor); err == nil {
			centre = cmd.Cursor.Velocity
		}
		half := (c.xlim[1] - c.xlim[0]) * frac
		c.xlim = [2]float64{centre - half, centre + half}
		out.Redraw = true
		return nil
	}
}

// panX shifts the x window by one width in direction dir.
func panX(dir float64) handler {
	return func(c *Controller, _ Command, out *Outcome) error {
		w := c.xlim[1] - c.xlim[0]
		c.xlim = [2]float64{c.xlim[0] + dir*w, c.xlim[1] + dir*w}
		out.Redraw = true
		return nil
	}
}

// setLimit sets one end of the x (axis 0) or y (axis 1) window from the cursor.
func setLimit(axis, end int) handler {
	return func(c *Controller, cmd Command, out *Outcome) error {
		if _, err := c.slot(cmd.Cursor); err != nil {
			return err
		}
		lim := &c.xlim
		val := cmd.Cursor.Velocity
		if axis == 1 {
			lim = &c.ylim
			val = cmd.Cursor.Flux
		}
		next := *lim
		next[end] = val
		if !(next[0] < next[1]) {
			return fmt.Errorf("%w: [%g, %g]", ErrBadWindow, next[0], next[1])
		}
		*lim = next
		out.Redraw = true
		out.Rescale = axis == 1
		return nil
	}
}

func zoomOutY(c *Controller, _ Command, out *Outcome) error {
	d := (c.ylim[1] - c.ylim[0]) / 2
	c.ylim = [2]float64{c.ylim[0] - d, c.ylim[1] + d}
	out.Redraw, out.Rescale = true, true
	return nil
}

// guessY fits the y window to the good pixels shown on the current page.
func guessY(c *Controller, _ Command, out *Outcome) error {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.page() {
		wvobs := s.Transition.Observed(c.z)
		i0, i1, ok := c.spec.PixMinMax(wvobs*(1+c.xlim[0]/spectrum.C), wvobs*(1+c.xlim[1]/spectrum.C))
		if !ok {
			continue
		}
		for i := i0; i <= i1; i++ {
			if c.spec.BadPixels[i] {
				continue
			}
			lo = math.Min(lo, c.spec.Flux[i])
			hi = math.Max(hi, c.spec.Flux[i])
		}
	}
	if !(lo < hi) {
		return fmt.Errorf("%w: no pixels on this page", ErrBadWindow)
	}
	pad := 0.1 * (hi - lo)
	c.ylim = [2]float64{lo - pad, hi + pad}
	out.Redraw, out.Rescale = true, true
	return nil
}

func resetWindow(c *Controller, _ Command, out *Outcome) error {
	c.xlim = c.cfg.VelocityWindow
	c.ylim = defaultYLim
	out.Redraw, out.Rescale = true, true
	return nil
}

// resize changes the row or column count by delta, never below one.
func resize(rows bool, delta int) handler {
	return func(c *Controller, _ Command, out *Outcome) error {
		if rows {
			c.rows = max(1, c.rows+delta)
		} else {
			c.cols = max(1, c.cols+delta)
		}
		c.clampIndex()
		out.Redraw, out.ClearFigure = true, true
		return nil
	}
}

func togglePreset(c *Controller, _ Command, out *Outcome) error {
	if c.preset == PresetOut {
		c.preset = PresetIn
	} else {
		c.preset = PresetOut
	}
	c.rows, c.cols = presets[c.preset][0], presets[c.preset][1]
	c.clampIndex()
	out.Redraw, out.ClearFigure = true, true
	return nil
}

func prevPage(c *Controller, _ Command, out *Outcome) error {
	prev := c.idx
	c.idx = max(0, c.idx-c.perPage())
	if c.idx == prev {
		out.say("Edge of list")
	}
	out.Redraw = true
	return nil
}

func nextPage(c *Controller, _ Command, out *Outcome) error {
	prev := c.idx
	c.idx = max(0, min(len(c.available)-c.perPage(), c.idx+c.perPage()))
	if c.idx == prev {
		out.say("Edge of list")
	}
	out.Redraw = true
	return nil
}

func firstPage(c *Controller, _ Command, out *Outcome) error {
	c.idx = 0
	out.say("Edge of list")
	out.Redraw = true
	return nil
}

// moveToCursor puts the cursor velocity at zero.
func moveToCursor(c *Controller, cmd Command, out *Outcome) error {
	if _, err := c.slot(cmd.Cursor); err != nil {
		return err
	}
	return c.setRedshift(c.z+cmd.Cursor.Velocity*(1+c.z)/spectrum.C, c.list, out)
}

func promptRedshift(c *Controller, cmd Command, out *Outcome) error {
	c.beginEntry(entryRedshift, "Enter redshift:", cmd.Cursor)
	return nil
}

func promptTransition(c *Controller, cmd Command, out *Outcome) error {
	if _, err := c.slot(cmd.Cursor); err != nil {
		return err
	}
	c.beginEntry(entryTransition, "Transition at cursor (name or rest wavelength):", cmd.Cursor)
	return nil
}

func (c *Controller) applyRedshift(text string, out *Outcome) error {
	z, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a redshift", ErrBadEntry, text)
	}
	return c.setRedshift(z, c.list, out)
}

// applyTransition identifies the absorption under the cursor as the named
// transition and solves for the redshift.
func (c *Controller) applyTransition(text string, at Cursor, out *Outcome) error {
	s, err := c.slot(at)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	var t linelist.Transition
	if w, perr := strconv.ParseFloat(text, 64); perr == nil {
		t, err = c.cat.Lookup(w)
	} else {
		t, err = c.cat.ByName(text)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadEntry, err)
	}
	wvobs := s.Transition.Observed(c.z) * (1 + at.Velocity/spectrum.C)
	return c.setRedshift(wvobs/t.Wrest-1, c.list, out)
}

// selectList switches to a named line list from the first page.
func selectList(name string) handler {
	return func(c *Controller, _ Command, out *Outcome) error {
		if err := c.setRedshift(c.z, name, out); err != nil {
			return err
		}
		c.idx = 0
		return nil
	}
}

func toggleLabels(c *Controller, _ Command, out *Outcome) error {
	c.labels = !c.labels
	out.Redraw = true
	return nil
}
