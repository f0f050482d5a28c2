// Package render turns session state into per-transition velocity panels
// and draws them, either as PNG pages through gonum/plot or as data for the
// terminal UI.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/synth"
)

// Marker is a vertical line in a panel, in km/s.
type Marker struct {
	Velocity float64
	Kind     MarkerKind
	Selected bool // belongs to the selected component
}

// MarkerKind distinguishes the vertical lines drawn in a panel.
type MarkerKind int

// Marker kinds.
const (
	MarkerLimit   MarkerKind = iota // component velocity limit
	MarkerCentre                    // component redshift
	MarkerPending                   // first click of an unfinished gesture
)

// Label annotates an identified line inside a panel.
type Label struct {
	Velocity float64
	Text     string
}

// VelocityPanel is everything needed to draw one transition's panel. Slices
// hold only the pixels inside the velocity window.
type VelocityPanel struct {
	Transition    linelist.Transition
	Row, Col      int
	Color         color.RGBA
	Velocity      []float64
	Flux          []float64
	Model         []float64
	Residual      []float64
	ResidualLimit []float64
	Bad           []bool
	Markers       []Marker
	Labels        []Label
	XLim, YLim    [2]float64
}

// PanelInput collects what Build needs.
type PanelInput struct {
	Spectrum   *spectrum.Spectrum
	Model      *synth.Model
	Transition linelist.Transition
	Z          float64
	XLim, YLim [2]float64
	Components []*component.Component
	Selected   string
	Labels     bool
	Pending    *float64 // velocity of an unfinished gesture in this panel
}

// Build slices the spectrum and model to the panel's velocity window and
// places component markers and line labels.
func Build(in PanelInput) VelocityPanel {
	p := VelocityPanel{Transition: in.Transition, XLim: in.XLim, YLim: in.YLim}
	wvobs := in.Transition.Observed(in.Z)
	wlo, whi := wvobs*(1+in.XLim[0]/spectrum.C), wvobs*(1+in.XLim[1]/spectrum.C)
	if lo, hi, ok := in.Spectrum.PixMinMax(wlo, whi); ok {
		for i := lo; i <= hi; i++ {
			p.Velocity = append(p.Velocity, (in.Spectrum.Wave[i]/wvobs-1)*spectrum.C)
			p.Flux = append(p.Flux, in.Spectrum.Flux[i])
			p.Bad = append(p.Bad, in.Spectrum.BadPixels[i])
			if in.Model != nil && len(in.Model.Flux) == in.Spectrum.Len() {
				p.Model = append(p.Model, in.Model.Flux[i])
			}
			if in.Model != nil && len(in.Model.Residual) == in.Spectrum.Len() {
				p.Residual = append(p.Residual, in.Model.Residual[i])
				p.ResidualLimit = append(p.ResidualLimit, in.Model.ResidualLimit[i])
			}
		}
	}

	reach := math.Max(math.Abs(in.XLim[0]), math.Abs(in.XLim[1]))
	for _, c := range in.Components {
		if math.Abs(c.Anchor.Wrest-in.Transition.Wrest) < 1e-3 {
			dvz := component.VelocityOffset(in.Z, c.Zcomp)
			if math.Abs(dvz) < reach {
				sel := c.Name == in.Selected
				p.Markers = append(p.Markers,
					Marker{Velocity: c.VLim[0] - dvz, Kind: MarkerLimit, Selected: sel},
					Marker{Velocity: c.VLim[1] - dvz, Kind: MarkerLimit, Selected: sel},
					Marker{Velocity: -dvz, Kind: MarkerCentre, Selected: sel},
				)
			}
		}
		if in.Labels {
			p.Labels = append(p.Labels, labels(c, wvobs, wlo, whi)...)
		}
	}
	if in.Pending != nil {
		p.Markers = append(p.Markers, Marker{Velocity: *in.Pending, Kind: MarkerPending})
	}
	return p
}

func labels(c *component.Component, wvobs, wlo, whi float64) []Label {
	suffix := ""
	if c.Attrib.Reliability != "" && c.Attrib.Reliability != "None" {
		suffix = c.Attrib.Reliability
	}
	var out []Label
	for i, l := range c.Lines {
		if c.Mask[i] == component.MaskUnused {
			continue
		}
		w := l.ObservedWave()
		if w <= wlo || w >= whi {
			continue
		}
		out = append(out, Label{
			Velocity: spectrum.C * (w/wvobs - 1),
			Text:     fmt.Sprintf("%s,%.3f%s", l.Name, l.Z, suffix),
		})
	}
	return out
}

// ColorPanels assigns species colours along a page: the colour advances
// whenever a panel's species differs from the previous panel's.
func ColorPanels(panels []VelocityPanel, pal Palette) {
	idx := 0
	for i := range panels {
		if i > 0 && panels[i].Transition.Species() != panels[i-1].Transition.Species() {
			idx++
		}
		panels[i].Color = SpeciesColor(pal, idx)
	}
}
