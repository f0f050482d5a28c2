package tui

import "github.com/papapumpkin/igmguesses/internal/session"

// Minimum panel size in cells: a title line plus two plot rows, and enough
// columns for a velocity to resolve.
const (
	minPanelWidth  = 8
	minPanelHeight = 3
)

// grid is the on-screen geometry of the panel page. Panel (r, c) occupies
// columns [c*pw, (c+1)*pw) and rows [top+r*ph, top+(r+1)*ph); its first row is
// the title and the last column is a gap.
type grid struct {
	top        int
	rows, cols int
	pw, ph     int
}

func newGrid(top, width, height, rows, cols int) grid {
	g := grid{top: top, rows: max(1, rows), cols: max(1, cols)}
	g.pw = width / g.cols
	g.ph = height / g.rows
	return g
}

// fits reports whether every panel is large enough to draw.
func (g grid) fits() bool {
	return g.pw >= minPanelWidth && g.ph >= minPanelHeight
}

// plotSize returns the plot area of one panel.
func (g grid) plotSize() (w, h int) {
	return g.pw - 1, g.ph - 1
}

// locate maps a screen cell to a panel position and the plot cell inside
// it. ok is false outside the grid.
func (g grid) locate(x, y int) (row, col, px, py int, ok bool) {
	if !g.fits() || x < 0 || y < g.top {
		return 0, 0, 0, 0, false
	}
	row, col = (y-g.top)/g.ph, x/g.pw
	if row >= g.rows || col >= g.cols {
		return 0, 0, 0, 0, false
	}
	w, h := g.plotSize()
	px = min(x-col*g.pw, w-1)
	py = max(0, (y-g.top)-row*g.ph-1)
	py = min(py, h-1)
	return row, col, px, py, true
}

// cursor converts a screen cell to a controller cursor using the page's
// panels and windows.
func (g grid) cursor(v session.View, x, y int) session.Cursor {
	row, col, px, py, ok := g.locate(x, y)
	if !ok {
		return session.NoCursor
	}
	for i, p := range v.Panels {
		if p.Row != row || p.Col != col {
			continue
		}
		w, h := g.plotSize()
		return session.Cursor{
			Panel:    i,
			Velocity: valueAt(px, w, v.XLim[0], v.XLim[1]),
			Flux:     valueAt(h-1-py, h, v.YLim[0], v.YLim[1]),
		}
	}
	return session.NoCursor
}

// valueAt maps cell i of n onto [lo, hi].
func valueAt(i, n int, lo, hi float64) float64 {
	if n < 2 {
		return (lo + hi) / 2
	}
	return lo + float64(i)/float64(n-1)*(hi-lo)
}

// cellAt maps v onto one of n cells spanning [lo, hi]; ok is false outside.
func cellAt(v float64, n int, lo, hi float64) (int, bool) {
	if n < 1 || !(v >= lo && v <= hi) || !(lo < hi) {
		return 0, false
	}
	i := int((v-lo)/(hi-lo)*float64(n-1) + 0.5)
	return min(max(i, 0), n-1), true
}
