package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/render"
)

func testPanel() render.VelocityPanel {
	return render.VelocityPanel{
		Transition: linelist.Transition{Name: "CIV 1548"},
		Color:      render.DefaultPalette[0],
		Velocity:   []float64{-400, -200, 0, 200, 400},
		Flux:       []float64{1, 0.9, 0.2, 0.9, 1},
		Model:      []float64{1, 0.95, 0.3, 0.95, 1},
		Bad:        []bool{false, false, false, false, true},
		Markers: []render.Marker{
			{Velocity: -100, Kind: render.MarkerLimit},
			{Velocity: 100, Kind: render.MarkerLimit},
			{Velocity: 250, Kind: render.MarkerPending},
		},
		Labels: []render.Label{{Velocity: -300, Text: "CIV"}},
		XLim:   [2]float64{-500, 500},
		YLim:   [2]float64{-0.1, 1.1},
	}
}

func TestDrawPanelGeometry(t *testing.T) {
	t.Parallel()
	lines := drawPanel(testPanel(), 30, 8, 3, 2)
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 30 {
			t.Errorf("line %d width = %d, want 30: %q", i, w, l)
		}
	}
	if !strings.Contains(lines[0], "CIV 1548") {
		t.Errorf("title = %q", lines[0])
	}
}

func TestDrawPanelGlyphs(t *testing.T) {
	t.Parallel()
	out := strings.Join(drawPanel(testPanel(), 30, 8, 3, 2), "\n")
	for _, glyph := range []string{"•", "×", "╎", "┃", "+", "CIV"} {
		if !strings.Contains(out, glyph) {
			t.Errorf("panel missing %q:\n%s", glyph, out)
		}
	}
	noCursor := strings.Join(drawPanel(testPanel(), 30, 8, -1, -1), "\n")
	if strings.Contains(noCursor, "+") {
		t.Errorf("cursor drawn without a position:\n%s", noCursor)
	}
}

func TestCanvasPriority(t *testing.T) {
	t.Parallel()
	cv := newCanvas(3, 1)
	cv.set(1, 0, cellFlux, '•')
	cv.set(1, 0, cellAxis, '┈')
	if got := cv.cells[1].r; got != '•' {
		t.Errorf("axis overwrote flux: %q", got)
	}
	cv.set(1, 0, cellCursor, '+')
	if got := cv.cells[1].r; got != '+' {
		t.Errorf("cursor did not draw over flux: %q", got)
	}
	cv.set(5, 0, cellFlux, '•') // out of range is ignored
}

func TestFit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"HI 1215", 10, "HI 1215   "},
		{"SiIV 1393", 4, "SiIV"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.w); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}
