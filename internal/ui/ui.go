// Package ui prints coloured status output for the non-interactive
// commands. Everything goes to stderr so tables on stdout stay pipeable.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/papapumpkin/igmguesses/internal/ansi"
	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/linelist"
)

// Printer writes status lines to stderr.
type Printer struct{}

// New returns a Printer.
func New() *Printer {
	return &Printer{}
}

// Banner prints the program name.
func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, ansi.Paint("igmguesses", ansi.Bold, ansi.Cyan)+ansi.Paint("  interactive absorption component guesses", ansi.Dim))
}

// Error prints a failure.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s\n", ansi.Paint("error: ", ansi.Red, ansi.Bold), msg)
}

// Info prints a dimmed progress note.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(os.Stderr, ansi.Paint(msg, ansi.Dim))
}

// Success prints a completed step.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s\n", ansi.Paint("✓ ", ansi.Green, ansi.Bold), msg)
}

// Warnings prints each warning on its own line.
func (p *Printer) Warnings(ws []component.Warning) {
	for _, w := range ws {
		fmt.Fprintf(os.Stderr, "%s%s\n", ansi.Paint("⚠ ", ansi.Yellow, ansi.Bold), w.String())
	}
}

// SessionSummary reports the spectrum and settings an interactive session
// starts with.
func (p *Printer) SessionSummary(specFile string, pixels int, fwhm float64, comps int, outFile string) {
	fmt.Fprintf(os.Stderr, "%s %s %s\n", ansi.Paint("◆ spectrum", ansi.Cyan), specFile,
		ansi.Paint(fmt.Sprintf("(%d pixels, FWHM %.2f px)", pixels, fwhm), ansi.Dim))
	if comps > 0 {
		fmt.Fprintf(os.Stderr, "%s %d component(s)\n", ansi.Paint("◆ loaded", ansi.Cyan), comps)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ansi.Paint("◆ output", ansi.Cyan), outFile)
}

// ValidateResult summarizes a guesses file check.
func (p *Printer) ValidateResult(path string, comps int, ws []component.Warning) {
	if len(ws) == 0 {
		fmt.Fprintf(os.Stderr, "%s: %d component(s), no warnings\n", ansi.Paint("✓ "+path, ansi.Green, ansi.Bold), comps)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %d component(s), %d warning(s):\n", ansi.Paint("⚠ "+path, ansi.Yellow, ansi.Bold), comps, len(ws))
	for _, w := range ws {
		fmt.Fprintf(os.Stderr, "  %s%s\n", ansi.Paint("• ", ansi.Yellow), w.String())
	}
}

// ComponentTable lists components with their fitted values and line usage.
func (p *Printer) ComponentTable(comps []*component.Component) {
	if len(comps) == 0 {
		fmt.Fprintln(os.Stderr, ansi.Paint("  (no components)", ansi.Dim))
		return
	}
	fmt.Fprintln(os.Stderr, ansi.Paint(fmt.Sprintf("  %-18s %-10s %6s %6s %10s %4s  %s", "name", "anchor", "logN", "b", "z", "rel", "lines"), ansi.Bold))
	for _, c := range comps {
		fmt.Fprintf(os.Stderr, "  %-18s %-10s %6.2f %6.1f %10.6f %4s  %d/%d\n",
			c.Name, c.Anchor.Name, c.Attrib.LogN, c.Attrib.B, c.Attrib.Z, c.Attrib.Reliability, len(c.Active()), len(c.Lines))
	}
}

// TransitionTable lists transitions with their observed wavelength at z and
// their strength score.
func (p *Printer) TransitionTable(cat *linelist.Catalog, ts []linelist.Transition, z float64) {
	fmt.Fprintln(os.Stderr, ansi.Paint(fmt.Sprintf("  %-12s %10s %10s %8s %8s", "name", "wrest", "wobs", "f", "strength"), ansi.Bold))
	for _, t := range ts {
		fmt.Fprintf(os.Stderr, "  %-12s %10.4f %10.4f %8.4f %8.2f\n", t.Name, t.Wrest, t.Observed(z), t.F, cat.Strength(t))
	}
}

// ShowHelp prints the interactive command vocabulary.
func (p *Printer) ShowHelp(help string) {
	fmt.Fprintln(os.Stderr, ansi.Paint("Commands:", ansi.Bold))
	for _, line := range strings.Split(strings.TrimSpace(help), "\n") {
		fmt.Fprintln(os.Stderr, "  "+line)
	}
}
