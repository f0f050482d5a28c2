package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/igmguesses/internal/session"
)

// Screen rows outside the panel grid: status bar, message lines, prompt and
// footer.
const (
	statusHeight = 1
	maxMessages  = 3
	bottomHeight = maxMessages + 2
)

// Options configure the TUI.
type Options struct {
	Spectrum string          // file name shown in the status bar
	Watcher  *CatalogWatcher // nil disables catalog hot reload
	Start    session.Outcome // opening messages, usually from Controller.Start
}

type logLine struct {
	text  string
	style lipgloss.Style
}

// AppModel is the root BubbleTea model. It owns no session state of its
// own: every command goes through the controller and the screen is redrawn
// from the controller's View.
type AppModel struct {
	Ctrl      *session.Controller
	Keys      KeyMap
	StatusBar StatusBar
	Input     textinput.Model
	Width     int
	Height    int
	Messages  []logLine
	ShowHelp  bool
	Quitting  bool

	view    session.View
	mouseX  int
	mouseY  int
	watcher *CatalogWatcher
}

// NewAppModel creates the root model for ctrl.
func NewAppModel(ctrl *session.Controller, opts Options) AppModel {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.PromptStyle = stylePrompt
	m := AppModel{
		Ctrl:      ctrl,
		Keys:      DefaultKeyMap(),
		StatusBar: StatusBar{Spectrum: opts.Spectrum},
		Input:     ti,
		mouseX:    -1,
		mouseY:    -1,
		watcher:   opts.Watcher,
	}
	m.apply(opts.Start)
	return m
}

// Init starts the catalog watcher when one is configured.
func (m AppModel) Init() tea.Cmd {
	return m.watcher.Next()
}

// Update handles all incoming messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.StatusBar.Width = msg.Width
		m.Input.Width = max(10, msg.Width-lipgloss.Width(m.Input.Prompt)-2)

	case tea.MouseMsg:
		m.mouseX, m.mouseY = msg.X, msg.Y

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgCatalogReloaded:
		m.apply(m.Ctrl.SetCatalog(msg.Catalog))
		return m, m.watcher.Next()

	case MsgCatalogError:
		m.addMessage("catalog: "+msg.Err.Error(), styleError)
		return m, m.watcher.Next()
	}
	m.StatusBar.Cursor = m.cursor()
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.Interrupt) {
		m.Quitting = true
		return m, tea.Quit
	}

	if m.view.State == session.AwaitingEntry {
		switch {
		case key.Matches(msg, m.Keys.Submit):
			return m.dispatch(session.Command{Key: "enter", Cursor: m.cursor(), Text: m.Input.Value()})
		case key.Matches(msg, m.Keys.Cancel):
			return m.dispatch(session.Command{Key: "esc", Cursor: m.cursor()})
		}
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}

	if m.ShowHelp {
		m.ShowHelp = false
		if key.Matches(msg, m.Keys.Help, m.Keys.Cancel) {
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, m.Keys.Left):
		m.moveCursor(-1, 0)
		return m, nil
	case key.Matches(msg, m.Keys.Right):
		m.moveCursor(1, 0)
		return m, nil
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(0, -1)
		return m, nil
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(0, 1)
		return m, nil
	}

	k := commandKey(msg)
	if k == "" {
		return m, nil
	}
	return m.dispatch(session.Command{Key: k, Cursor: m.cursor()})
}

func (m AppModel) dispatch(cmd session.Command) (tea.Model, tea.Cmd) {
	out := m.Ctrl.Dispatch(cmd)
	m.apply(out)
	if out.Quit {
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// apply records an outcome's messages and refreshes the view.
func (m *AppModel) apply(out session.Outcome) {
	style := styleInfo
	if out.Write {
		style = styleWritten
	}
	for _, s := range out.Messages {
		m.addMessage(s, style)
	}
	for _, w := range out.Warnings {
		m.addMessage(w.String(), styleWarning)
	}
	if out.Err != nil {
		m.addMessage(out.Err.Error(), styleError)
	}

	wasEntry := m.view.State == session.AwaitingEntry
	m.view = m.Ctrl.View()
	m.StatusBar.Snapshot = m.view
	switch {
	case m.view.State == session.AwaitingEntry && !wasEntry:
		m.Input.Reset()
		m.Input.Prompt = out.Prompt + " "
		m.Input.Focus()
		m.Keys = PromptKeyMap()
	case m.view.State != session.AwaitingEntry && wasEntry:
		m.Input.Blur()
		m.Keys = DefaultKeyMap()
	}
	m.StatusBar.Cursor = m.cursor()
}

func (m *AppModel) addMessage(text string, style lipgloss.Style) {
	m.Messages = append(m.Messages, logLine{text: text, style: style})
	if len(m.Messages) > maxMessages {
		m.Messages = m.Messages[len(m.Messages)-maxMessages:]
	}
}

func (m AppModel) grid() grid {
	return newGrid(statusHeight, m.Width, m.Height-statusHeight-bottomHeight, m.view.Rows, m.view.Cols)
}

// cursor maps the pointer to a controller cursor.
func (m AppModel) cursor() session.Cursor {
	return m.grid().cursor(m.view, m.mouseX, m.mouseY)
}

// moveCursor steps the pointer by one cell, starting from the middle of
// the first panel when it is outside the grid.
func (m *AppModel) moveCursor(dx, dy int) {
	g := m.grid()
	if !g.fits() {
		return
	}
	if _, _, _, _, ok := g.locate(m.mouseX, m.mouseY); !ok {
		m.mouseX, m.mouseY = g.pw/2, g.top+g.ph/2
		dx, dy = 0, 0
	}
	x, y := m.mouseX+dx, m.mouseY+dy
	if _, _, _, _, ok := g.locate(x, y); ok {
		m.mouseX, m.mouseY = x, y
	}
	m.StatusBar.Cursor = m.cursor()
}

// View renders the full TUI screen.
func (m AppModel) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	g := m.grid()
	gridHeight := m.Height - statusHeight - bottomHeight

	var b strings.Builder
	b.WriteString(m.StatusBar.View())
	b.WriteByte('\n')

	switch {
	case m.ShowHelp:
		help := styleHelp.Render(strings.TrimSpace(session.HelpText))
		b.WriteString(lipgloss.Place(m.Width, gridHeight, lipgloss.Center, lipgloss.Center, help))
	case !g.fits():
		b.WriteString(lipgloss.Place(m.Width, gridHeight, lipgloss.Center, lipgloss.Center,
			styleWarning.Render("terminal too small for this layout; press c or k to drop columns or rows")))
	default:
		b.WriteString(m.renderGrid(g, gridHeight))
	}
	b.WriteByte('\n')

	for i := 0; i < maxMessages; i++ {
		if i < len(m.Messages) {
			l := m.Messages[i]
			b.WriteString(l.style.Render(fit(l.text, m.Width)))
		}
		b.WriteByte('\n')
	}
	if m.view.State == session.AwaitingEntry {
		b.WriteString(m.Input.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.footer())
	return b.String()
}

// renderGrid draws the page's panels, padded to height lines.
func (m AppModel) renderGrid(g grid, height int) string {
	crow, ccol, cx, cy, hasCursor := g.locate(m.mouseX, m.mouseY)
	cells := make(map[[2]int][]string, len(m.view.Panels))
	for _, p := range m.view.Panels {
		x, y := -1, -1
		if hasCursor && p.Row == crow && p.Col == ccol {
			x, y = cx, cy
		}
		cells[[2]int{p.Row, p.Col}] = drawPanel(p, g.pw, g.ph, x, y)
	}

	blank := strings.Repeat(" ", g.pw)
	lines := make([]string, 0, height)
	for r := 0; r < g.rows; r++ {
		for l := 0; l < g.ph; l++ {
			var line strings.Builder
			for c := 0; c < g.cols; c++ {
				if p, ok := cells[[2]int{r, c}]; ok {
					line.WriteString(p[l])
				} else {
					line.WriteString(blank)
				}
			}
			lines = append(lines, line.String())
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) footer() string {
	var hint string
	switch {
	case m.view.State == session.AwaitingEntry:
		hint = "enter submit · esc cancel"
	case m.view.State == session.AwaitingSecondBound:
		hint = "move to the other bound and repeat the key · esc cancel"
	default:
		hint = "? help · A add · S select · R refit · w write · Q write+quit · q quit"
	}
	return styleFooter.Render(fit(" "+hint, m.Width))
}
