package ui

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/linelist"
)

// captureStderr redirects os.Stderr to a pipe and returns the captured output.
func captureStderr(fn func()) string {
	r, w, _ := os.Pipe()
	orig := os.Stderr
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = orig

	out, _ := io.ReadAll(r)
	r.Close()
	return string(out)
}

func TestValidateResult(t *testing.T) {
	p := New()

	clean := captureStderr(func() { p.ValidateResult("IGM_model.json", 3, nil) })
	if !strings.Contains(clean, "3 component(s), no warnings") {
		t.Errorf("clean result = %q", clean)
	}

	ws := []component.Warning{{Component: "z2.30000_HI", Msg: "fit stopped at the b limit"}}
	warned := captureStderr(func() { p.ValidateResult("IGM_model.json", 1, ws) })
	for _, want := range []string{"1 warning(s)", "z2.30000_HI: fit stopped at the b limit"} {
		if !strings.Contains(warned, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, warned)
		}
	}
}

func TestComponentTable(t *testing.T) {
	p := New()
	c := &component.Component{
		Name:   "z2.30000_HI",
		Anchor: linelist.Transition{Name: "HI 1215"},
		Attrib: component.Attrib{LogN: 13.5, B: 25, Z: 2.3, Reliability: "a"},
		Lines:  make([]component.Line, 3),
		Mask:   []int{2, 0, 1},
	}
	output := captureStderr(func() { p.ComponentTable([]*component.Component{c}) })

	checks := []struct {
		name   string
		substr string
	}{
		{"name", "z2.30000_HI"},
		{"anchor", "HI 1215"},
		{"logN", "13.50"},
		{"b", "25.0"},
		{"z", "2.300000"},
		{"line usage", "2/3"},
	}
	for _, c := range checks {
		if !strings.Contains(output, c.substr) {
			t.Errorf("expected output to contain %s (%q), got:\n%s", c.name, c.substr, output)
		}
	}

	empty := captureStderr(func() { p.ComponentTable(nil) })
	if !strings.Contains(empty, "no components") {
		t.Errorf("empty table = %q", empty)
	}
}

func TestTransitionTable(t *testing.T) {
	p := New()
	cat, err := linelist.Default()
	if err != nil {
		t.Fatal(err)
	}
	lya, err := cat.ByName("HI 1215")
	if err != nil {
		t.Fatal(err)
	}
	output := captureStderr(func() { p.TransitionTable(cat, []linelist.Transition{lya}, 2.3) })
	for _, want := range []string{"HI 1215", "1215.6701", "4011.7113", "14.70"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestWarningsAndMessages(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.Error("bad spectrum")
		p.Info("loading")
		p.Success("wrote IGM_model.json")
		p.Warnings([]component.Warning{{Msg: "spectrum file differs"}})
		p.ShowHelp("A add\nS select")
	})
	for _, want := range []string{"error: ", "bad spectrum", "loading", "wrote IGM_model.json", "spectrum file differs", "  A add", "  S select"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}
