package arch_test

import (
	"slices"
	"testing"
)

// layers places every internal package in the import DAG. A package may
// import only packages on a strictly lower layer, so peers stay independent.
var layers = map[string]int{
	// Numerics and I/O with no knowledge of components.
	"ansi":      0,
	"config":    0,
	"linelist":  0,
	"spectrum":  0,
	"telemetry": 0,
	"voigt":     0,

	// The component model and its registry.
	"component": 1,

	// Operations over components: fitting, persistence, model synthesis.
	"fit":     2,
	"guesses": 2,
	"synth":   2,

	// Read-only consumers of models and guesses files.
	"render": 3,
	"survey": 3,

	// The interactive state machine behind every front end.
	"session": 4,

	// Front ends.
	"ui":  5,
	"tui": 6,
}

func TestDependencyLayering(t *testing.T) {
	t.Parallel()
	for _, pkg := range internalPackages(t) {
		layer, ok := layers[pkg]
		if !ok {
			t.Errorf("package %s has no layer; add it to layers", pkg)
			continue
		}
		for _, imp := range internalImports(t, pkg) {
			if l, ok := layers[imp]; ok && l >= layer {
				t.Errorf("%s (layer %d) imports %s (layer %d)", pkg, layer, imp, l)
			}
		}
	}
}

// TestLoadBearingEdges pins the imports the layering exists to allow, so a
// refactor that routes around them shows up here.
func TestLoadBearingEdges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from, to string
	}{
		{"component", "linelist"},
		{"fit", "component"},
		{"fit", "voigt"},
		{"synth", "voigt"},
		{"guesses", "component"},
		{"survey", "guesses"},
		{"render", "synth"},
		{"session", "fit"},
		{"session", "guesses"},
		{"session", "telemetry"},
		{"tui", "session"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			t.Parallel()
			if got := internalImports(t, tt.from); !slices.Contains(got, tt.to) {
				t.Errorf("%s imports %v, want %s among them", tt.from, got, tt.to)
			}
		})
	}
}
