package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/igmguesses/internal/render"
)

// cellKind is what occupies one plot cell. Later kinds draw over earlier ones.
type cellKind uint8

const (
	cellBlank cellKind = iota
	cellAxis
	cellResidual
	cellMarker
	cellSelected
	cellPending
	cellModel
	cellFlux
	cellBad
	cellLabel
	cellCursor
)

type cell struct {
	kind cellKind
	r    rune
}

// canvas is a fixed-size grid of plot cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, cells: make([]cell, w*h)}
}

func (c *canvas) set(x, y int, kind cellKind, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := y*c.w + x
	if kind >= c.cells[i].kind {
		c.cells[i] = cell{kind: kind, r: r}
	}
}

// drawPanel renders one velocity panel into a title line plus h-1 plot rows,
// each exactly w cells wide. cx, cy place the cursor in plot cells; pass a
// negative cx for none.
func drawPanel(p render.VelocityPanel, w, h, cx, cy int) []string {
	pw, ph := w-1, h-1
	cv := newCanvas(pw, ph)
	col := func(v float64) (int, bool) { return cellAt(v, pw, p.XLim[0], p.XLim[1]) }
	row := func(f float64) (int, bool) {
		r, ok := cellAt(f, ph, p.YLim[0], p.YLim[1])
		return ph - 1 - r, ok
	}

	for _, level := range []float64{0, 1} {
		if y, ok := row(level); ok {
			for x := 0; x < pw; x++ {
				cv.set(x, y, cellAxis, '┈')
			}
		}
	}
	if x, ok := col(0); ok {
		for y := 0; y < ph; y++ {
			cv.set(x, y, cellAxis, '┊')
		}
	}
	for _, m := range p.Markers {
		x, ok := col(m.Velocity)
		if !ok {
			continue
		}
		kind, r := cellMarker, '│'
		switch {
		case m.Kind == render.MarkerPending:
			kind, r = cellPending, '┃'
		case m.Selected:
			kind = cellSelected
		}
		if m.Kind == render.MarkerLimit {
			r = '╎'
		}
		for y := 0; y < ph; y++ {
			cv.set(x, y, kind, r)
		}
	}
	for i, v := range p.Velocity {
		x, ok := col(v)
		if !ok {
			continue
		}
		if i < len(p.Residual) {
			if y, ok := row(p.Residual[i]); ok {
				cv.set(x, y, cellResidual, '·')
			}
		}
		if i < len(p.Model) {
			if y, ok := row(p.Model[i]); ok {
				cv.set(x, y, cellModel, '─')
			}
		}
		if y, ok := row(p.Flux[i]); ok {
			if p.Bad[i] {
				cv.set(x, y, cellBad, '×')
			} else {
				cv.set(x, y, cellFlux, '•')
			}
		}
	}
	for _, l := range p.Labels {
		x, ok := col(l.Velocity)
		if !ok {
			continue
		}
		for i, r := range []rune(l.Text) {
			cv.set(x+i, 0, cellLabel, r)
		}
	}
	if cx >= 0 {
		cv.set(cx, cy, cellCursor, '+')
	}

	species := lipgloss.NewStyle().Foreground(rgb(p.Color))
	out := make([]string, 0, h)
	out = append(out, species.Bold(true).Render(fit(p.Transition.Name, w)))
	for y := 0; y < ph; y++ {
		out = append(out, cv.renderRow(y, species)+" ")
	}
	return out
}

// renderRow styles one canvas row, grouping runs of equal kind.
func (c *canvas) renderRow(y int, species lipgloss.Style) string {
	var b strings.Builder
	row := c.cells[y*c.w : (y+1)*c.w]
	for i := 0; i < len(row); {
		j := i
		var run strings.Builder
		for j < len(row) && row[j].kind == row[i].kind {
			r := row[j].r
			if row[j].kind == cellBlank {
				r = ' '
			}
			run.WriteRune(r)
			j++
		}
		b.WriteString(cellStyle(row[i].kind, species).Render(run.String()))
		i = j
	}
	return b.String()
}

func cellStyle(k cellKind, species lipgloss.Style) lipgloss.Style {
	switch k {
	case cellAxis:
		return styleAxis
	case cellResidual:
		return styleResidual
	case cellMarker:
		return styleMarker
	case cellSelected:
		return styleSelected
	case cellPending:
		return stylePending
	case cellModel:
		return styleModel
	case cellFlux:
		return species
	case cellBad:
		return styleBad
	case cellLabel:
		return styleLabel
	case cellCursor:
		return styleCursor
	}
	return lipgloss.NewStyle()
}

// fit pads or truncates s to exactly w runes.
func fit(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}
