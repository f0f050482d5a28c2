package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/igmguesses/internal/session"
)

// StatusBar renders the top line: redshift, line list, page position,
// selected component, input state and the cursor readout.
type StatusBar struct {
	Spectrum string
	Snapshot session.View
	Cursor   session.Cursor
	Width    int
}

// View renders the status bar as a single line. Segments are dropped from
// the right when the terminal is too narrow.
func (s StatusBar) View() string {
	v := s.Snapshot
	segs := []string{
		seg("z", fmt.Sprintf("%.5f", v.Z)),
		seg("list", v.List),
		seg("page", s.pageLabel()),
		seg("comps", fmt.Sprintf("%d", v.Components)),
	}
	if v.Selected != "" {
		segs = append(segs, seg("sel", v.Selected))
	}
	if v.State != session.Idle {
		segs = append(segs, styleStatusState.Render(strings.ToUpper(v.State.String())))
	}
	if s.Cursor.Panel >= 0 && s.Cursor.Panel < len(v.Panels) {
		segs = append(segs, seg("cursor", fmt.Sprintf("%s %+.1f km/s %.3f",
			v.Panels[s.Cursor.Panel].Transition.Name, s.Cursor.Velocity, s.Cursor.Flux)))
	}
	if s.Spectrum != "" {
		segs = append([]string{styleStatusLabel.Render(s.Spectrum)}, segs...)
	}

	const barPadding = 2
	inner := max(0, s.Width-barPadding)
	sep := styleStatusValue.Render("  ")
	line := strings.Join(segs, sep)
	for len(segs) > 1 && lipgloss.Width(line) > inner {
		segs = segs[:len(segs)-1]
		line = strings.Join(segs, sep)
	}
	if gap := inner - lipgloss.Width(line); gap > 0 {
		line += styleStatusValue.Render(strings.Repeat(" ", gap))
	}
	return styleStatusBar.Render(line)
}

func (s StatusBar) pageLabel() string {
	v := s.Snapshot
	if v.Available == 0 {
		return "0/0"
	}
	per := max(1, v.Rows*v.Cols)
	last := min(v.Available, v.Index+per)
	return fmt.Sprintf("%d-%d/%d %dx%d", v.Index+1, last, v.Available, v.Rows, v.Cols)
}

func seg(label, value string) string {
	return styleStatusLabel.Render(label+" ") + styleStatusValue.Render(value)
}
