package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Page dimensions per panel.
const (
	panelWidth  = 4 * vg.Inch
	panelHeight = 2.5 * vg.Inch
)

// WritePNG draws panels on a rows x cols grid and writes the page as PNG.
// Panels carry their own grid position.
func WritePNG(w io.Writer, panels []VelocityPanel, rows, cols int, title string) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("invalid grid %dx%d", rows, cols)
	}
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
	}
	for i := range panels {
		pnl := &panels[i]
		if pnl.Row < 0 || pnl.Row >= rows || pnl.Col < 0 || pnl.Col >= cols {
			return fmt.Errorf("panel %s at (%d, %d) outside %dx%d grid", pnl.Transition.Name, pnl.Row, pnl.Col, rows, cols)
		}
		p, err := panelPlot(pnl, pnl.Row == rows-1)
		if err != nil {
			return fmt.Errorf("panel %s: %w", pnl.Transition.Name, err)
		}
		grid[pnl.Row][pnl.Col] = p
	}
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] == nil {
				p := plot.New()
				p.HideAxes()
				grid[r][c] = p
			}
		}
	}

	if title != "" && grid[0][0] != nil {
		grid[0][0].Title.Text = title + "  " + grid[0][0].Title.Text
	}

	img := vgimg.New(vg.Length(cols)*panelWidth, vg.Length(rows)*panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}
	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c := range grid[r] {
			grid[r][c].Draw(canvases[r][c])
		}
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func panelPlot(pnl *VelocityPanel, bottom bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pnl.Transition.Name
	p.Title.TextStyle.Color = pnl.Color
	p.X.Min, p.X.Max = pnl.XLim[0], pnl.XLim[1]
	p.Y.Min, p.Y.Max = pnl.YLim[0], pnl.YLim[1]
	if bottom {
		p.X.Label.Text = "Relative Velocity (km/s)"
	}

	zero, err := vline(0, pnl.YLim, color.Gray{Y: 0x80}, true)
	if err != nil {
		return nil, err
	}
	p.Add(zero)

	if len(pnl.Velocity) > 1 {
		data, err := plotter.NewLine(xys(pnl.Velocity, pnl.Flux))
		if err != nil {
			return nil, err
		}
		data.StepStyle = plotter.MidStep
		data.LineStyle.Color = pnl.Color
		data.LineStyle.Width = vg.Points(0.5)
		p.Add(data)
	}
	if len(pnl.Model) == len(pnl.Velocity) && len(pnl.Model) > 1 {
		model, err := plotter.NewLine(xys(pnl.Velocity, pnl.Model))
		if err != nil {
			return nil, err
		}
		model.LineStyle.Color = ModelColor
		model.LineStyle.Width = vg.Points(0.75)
		p.Add(model)
	}
	if len(pnl.Residual) == len(pnl.Velocity) && len(pnl.Residual) > 1 {
		neg := make([]float64, len(pnl.ResidualLimit))
		for i, v := range pnl.ResidualLimit {
			neg[i] = -v
		}
		for _, ys := range [][]float64{pnl.ResidualLimit, neg} {
			lim, err := plotter.NewLine(xys(pnl.Velocity, ys))
			if err != nil {
				return nil, err
			}
			lim.StepStyle = plotter.MidStep
			lim.LineStyle.Width = vg.Points(0.5)
			p.Add(lim)
		}
		res, err := plotter.NewScatter(xys(pnl.Velocity, pnl.Residual))
		if err != nil {
			return nil, err
		}
		res.GlyphStyle.Color = color.Gray{Y: 0x80}
		res.GlyphStyle.Radius = vg.Points(0.75)
		res.Shape = draw.CircleGlyph{}
		p.Add(res)
	}

	var bad plotter.XYs
	for i, b := range pnl.Bad {
		if b {
			bad = append(bad, plotter.XY{X: pnl.Velocity[i], Y: pnl.Flux[i]})
		}
	}
	if len(bad) > 0 {
		s, err := plotter.NewScatter(bad)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = pnl.Color
		s.GlyphStyle.Radius = vg.Points(2)
		s.Shape = draw.CrossGlyph{}
		p.Add(s)
	}

	for _, m := range pnl.Markers {
		ylim := pnl.YLim
		if m.Kind == MarkerCentre {
			ylim = [2]float64{1.0, 1.05}
		}
		l, err := vline(m.Velocity, ylim, MarkerColor, m.Kind != MarkerCentre)
		if err != nil {
			return nil, err
		}
		if m.Kind == MarkerCentre {
			l.LineStyle.Color = color.Gray{Y: 0x80}
		}
		if m.Selected {
			l.LineStyle.Width = vg.Points(1.5)
		}
		p.Add(l)
	}

	if len(pnl.Labels) > 0 {
		pts := make(plotter.XYs, len(pnl.Labels))
		txt := make([]string, len(pnl.Labels))
		for i, lb := range pnl.Labels {
			pts[i] = plotter.XY{X: lb.Velocity, Y: 0.5}
			txt[i] = lb.Text
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: txt})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = ModelColor
			labels.TextStyle[i].Rotation = 1.5707963267948966
		}
		p.Add(labels)
	}
	return p, nil
}

func vline(x float64, ylim [2]float64, c color.Color, dashed bool) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: ylim[0]}, {X: x, Y: ylim[1]}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	return l, nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pts
}
