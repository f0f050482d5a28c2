package session

import (
	"math"

	"github.com/papapumpkin/igmguesses/internal/render"
)

// Page returns the panel slots of the current page.
func (c *Controller) Page() []Slot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page()
}

// View returns a snapshot of the display state with one velocity panel per
// slot of the current page, coloured by species.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := View{
		State:      c.state,
		Prompt:     c.prompt,
		Z:          c.z,
		List:       c.list,
		Selected:   c.selected,
		Components: c.reg.Len(),
		Rows:       c.rows,
		Cols:       c.cols,
		Index:      c.idx,
		Available:  len(c.available),
		XLim:       c.xlim,
		YLim:       c.ylim,
		Labels:     c.labels,
		Preset:     c.preset,
	}
	comps := c.reg.All()
	for _, s := range c.page() {
		in := render.PanelInput{
			Spectrum:   c.spec,
			Model:      c.synth.Model(),
			Transition: s.Transition,
			Z:          c.z,
			XLim:       c.xlim,
			YLim:       c.ylim,
			Components: comps,
			Selected:   c.selected,
			Labels:     c.labels,
		}
		if c.state == AwaitingSecondBound && math.Abs(c.pend.transition.Wrest-s.Transition.Wrest) < 1e-3 {
			vel := c.pend.velocity
			in.Pending = &vel
		}
		p := render.Build(in)
		p.Row, p.Col = s.Row, s.Col
		v.Panels = append(v.Panels, p)
	}
	render.ColorPanels(v.Panels, c.cfg.Palette)
	return v
}
