package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papapumpkin/igmguesses/internal/config"
	"github.com/papapumpkin/igmguesses/internal/guesses"
	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/render"
	"github.com/papapumpkin/igmguesses/internal/session"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/survey"
	"github.com/papapumpkin/igmguesses/internal/voigt"
)

func TestSubcommandsRegistered(t *testing.T) {
	t.Parallel()

	want := []string{"run", "validate", "plot", "catalog", "survey", "telemetry", "keys"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			found := false
			for _, c := range rootCmd.Commands() {
				if c.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected %q subcommand to be registered on rootCmd", name)
			}
		})
	}
}

func TestSessionFlags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"out", "previous", "fwhm", "n-max-tuple", "min-strength", "min-ew", "catalog", "no-residuals", "telemetry", "list", "z"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if runCmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q on run", name)
			}
			if rootCmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q on root", name)
			}
		})
	}
}

func TestSessionConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Config{
		FWHM:           4,
		MinEW:          0.01,
		MinStrength:    12,
		NMaxTuple:      2,
		OutFile:        "out.json",
		LineList:       linelist.ListStrong,
		PlotResiduals:  false,
		VelocityWindow: []float64{-300, 300},
		Palette:        []string{"#112233"},
		Fit:            config.FitConfig{MaxIterations: 50, ObjectiveTol: 1e-8},
	}

	sc, err := sessionConfig(cfg, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if sc.FWHM != 4 || sc.MinEW != 0.01 || sc.MinStrength != 12 || sc.NMaxTuple != 2 || sc.Z != 1.5 ||
		sc.List != linelist.ListStrong || sc.Residuals || sc.VelocityWindow != [2]float64{-300, 300} ||
		sc.MaxIterations != 50 || sc.ObjectiveTol != 1e-8 || sc.OutFile != "out.json" {
		t.Errorf("session config = %+v", sc)
	}
	if len(sc.Palette) != 1 || render.Hex(sc.Palette[0]) != "#112233" {
		t.Errorf("palette = %v", sc.Palette)
	}

	cfg.Palette = []string{"teal"}
	if _, err := sessionConfig(cfg, 0); err == nil {
		t.Error("expected an error for a malformed palette")
	}
}

func TestPrintEvent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "component event",
			line: `{"ts":"2026-01-02T15:04:05Z","kind":"component_fit","session":"abc","component":"z2.30000_HI","data":{"logN":13.5,"b":25}}`,
			want: []string{"[15:04:05]", "component_fit", "component=z2.30000_HI", "b=25 logN=13.5"},
		},
		{
			name: "non-map data",
			line: `{"ts":"2026-01-02T15:04:05Z","kind":"warning","data":[1,2]}`,
			want: []string{"warning", "[1,2]"},
		},
		{
			name: "garbage",
			line: `not json`,
			want: []string{"??? not json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printEvent(&buf, tt.line)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestWriteSurvey(t *testing.T) {
	t.Parallel()
	a, b := "a", "c"
	s := survey.New("IGM", survey.FromFile(guesses.File{Cmps: map[string]guesses.Record{
		"z2.30000_HI":  {Zfit: 2.3, Nfit: 13.5, Bfit: 25, Reliability: &a, MaskAbslines: []int{2}},
		"z2.10000_CIV": {Zfit: 2.1, Nfit: 12.9, Bfit: 8, Reliability: &b, MaskAbslines: []int{2, 0}},
	}}, "q1.json")...)

	var buf bytes.Buffer
	n := writeSurvey(&buf, s, []string{"name", "logN", "lines"})
	want := "name\tlogN\tlines\nz2.10000_CIV\t12.90\t1\nz2.30000_HI\t13.50\t1\n"
	if n != 2 || buf.String() != want {
		t.Errorf("got %d rows:\n%q\nwant:\n%q", n, buf.String(), want)
	}
}

// writeFixture writes a CSV spectrum holding one Lya line at z=2.3 and a
// guesses file with one component fitted to it.
func writeFixture(t *testing.T) (specPath, guessPath string) {
	t.Helper()
	dir := t.TempDir()
	cat, err := linelist.Default()
	if err != nil {
		t.Fatal(err)
	}
	lya, err := cat.ByName("HI 1215")
	if err != nil {
		t.Fatal(err)
	}
	n := 20000
	wave := make([]float64, n)
	for i := range wave {
		wave[i] = 4000 + 0.05*float64(i)
	}
	flux := voigt.Model(wave, []voigt.Line{{Wrest: lya.Wrest, F: lya.F, Gamma: lya.Gamma, LogN: 13.5, B: 25, Z: 2.3}}, 3)
	var csv strings.Builder
	csv.WriteString("wave,flux,sig\n")
	for i := range wave {
		fmt.Fprintf(&csv, "%.4f,%.6f,0.02\n", wave[i], flux[i])
	}
	specPath = filepath.Join(dir, "spec.csv")
	if err := os.WriteFile(specPath, []byte(csv.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := spectrum.Read(specPath)
	if err != nil {
		t.Fatal(err)
	}
	cfg := session.DefaultConfig()
	cfg.Z = 2.3
	ctrl, err := session.New(spec, cat, nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	panel := -1
	for i, s := range ctrl.Page() {
		if s.Transition.Name == "HI 1215" {
			panel = i
		}
	}
	for _, v := range []float64{-60, 60} {
		out := ctrl.Dispatch(session.Command{Key: "A", Cursor: session.Cursor{Panel: panel, Velocity: v, Flux: 0.5}})
		if out.Err != nil {
			t.Fatal(out.Err)
		}
	}
	guessPath = filepath.Join(dir, "IGM_model.json")
	if err := ctrl.Save(guessPath); err != nil {
		t.Fatal(err)
	}
	return specPath, guessPath
}

func TestValidateCommand(t *testing.T) {
	// Not parallel: sets shared validateCmd flags and viper state.
	specPath, guessPath := writeFixture(t)
	if err := validateCmd.Flags().Set("spectrum", specPath); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = validateCmd.Flags().Set("spectrum", "")
		_ = validateCmd.Flags().Set("fwhm", "3")
	}()

	if err := runValidate(validateCmd, []string{guessPath}); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := validateCmd.Flags().Set("fwhm", "4"); err != nil {
		t.Fatal(err)
	}
	err := runValidate(validateCmd, []string{guessPath})
	if !errors.Is(err, guesses.ErrFWHMMismatch) {
		t.Errorf("expected ErrFWHMMismatch, got %v", err)
	}
}

func TestPlotCommand(t *testing.T) {
	// Not parallel: sets shared plotCmd flags and viper state.
	specPath, guessPath := writeFixture(t)
	pngPath := filepath.Join(t.TempDir(), "page.png")
	set := map[string]string{"guesses": guessPath, "png": pngPath, "z": "2.3", "labels": "true", "telemetry": ""}
	for k, v := range set {
		if err := plotCmd.Flags().Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	defer func() {
		for k := range set {
			f := plotCmd.Flags().Lookup(k)
			_ = f.Value.Set(f.DefValue)
		}
	}()

	if err := runPlot(plotCmd, []string{specPath}); err != nil {
		t.Fatalf("plot: %v", err)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestCatalogCommandNeedsRange(t *testing.T) {
	// Not parallel: reads shared catalogCmd flags and viper state.
	err := runCatalog(catalogCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "--wvmin") {
		t.Errorf("expected a range error, got %v", err)
	}
}
