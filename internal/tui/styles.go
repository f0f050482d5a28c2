package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/igmguesses/internal/render"
)

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // Cyan, primary accent
	colorAccent     = lipgloss.Color("#FFD700") // Gold, pending input
	colorSuccess    = lipgloss.Color("#00E676") // Green, written
	colorDanger     = lipgloss.Color("#FF5252") // Red, errors
	colorMuted      = lipgloss.Color("#636363") // Gray, de-emphasized
	colorMutedLight = lipgloss.Color("#8C8C8C") // Lighter gray, normal text
	colorWhite      = lipgloss.Color("#EEEEEE") // Off-white, primary text
	colorSurface    = lipgloss.Color("#1E1E2E") // Dark surface, status bar bg
	colorSurfaceDim = lipgloss.Color("#181825") // Darkest surface, footer bg
)

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorWhite)

	styleStatusState = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorAccent).
				Bold(true)
)

// Message area styles.
var (
	styleInfo    = lipgloss.NewStyle().Foreground(colorMutedLight)
	styleWarning = lipgloss.NewStyle().Foreground(colorAccent)
	styleError   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleWritten = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	stylePrompt  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// Footer style.
var styleFooter = lipgloss.NewStyle().
	Background(colorSurfaceDim).
	Foreground(colorMuted)

// Help overlay.
var styleHelp = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Foreground(colorWhite).
	Padding(0, 1)

// Panel cell styles. Species colours come from the session palette.
var (
	styleAxis     = lipgloss.NewStyle().Foreground(colorMuted)
	styleModel    = lipgloss.NewStyle().Foreground(rgb(render.ModelColor))
	styleResidual = lipgloss.NewStyle().Foreground(colorMutedLight)
	styleBad      = lipgloss.NewStyle().Foreground(colorDanger)
	styleMarker   = lipgloss.NewStyle().Foreground(rgb(render.MarkerColor))
	styleSelected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	stylePending  = lipgloss.NewStyle().Foreground(colorAccent).Blink(true)
	styleCursor   = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(colorWhite).Faint(true)
)

// rgb converts a palette colour to a lipgloss colour.
func rgb(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(render.Hex(c))
}
