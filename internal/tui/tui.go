// Package tui is the interactive terminal front end: a bubbletea program
// that draws the velocity panels of a session.Controller and turns key
// presses and the pointer position into controller commands.
package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/igmguesses/internal/session"
)

// Program is an alias so callers do not need to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for ctrl with alt-screen and
// pointer tracking enabled.
func NewProgram(ctrl *session.Controller, opts Options, progOpts ...tea.ProgramOption) *Program {
	model := NewAppModel(ctrl, opts)
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
	allOpts = append(allOpts, progOpts...)
	return tea.NewProgram(model, allOpts...)
}

// Run creates and runs a TUI program, blocking until the user quits.
func Run(ctrl *session.Controller, opts Options) error {
	p := NewProgram(ctrl, opts)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
