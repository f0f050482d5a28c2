package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/config"
	"github.com/papapumpkin/igmguesses/internal/guesses"
	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/render"
	"github.com/papapumpkin/igmguesses/internal/session"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/telemetry"
	"github.com/papapumpkin/igmguesses/internal/tui"
	"github.com/papapumpkin/igmguesses/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run <spectrum>",
	Short: "Start an interactive guessing session on a spectrum",
	Long: `Loads a normalized spectrum (FITS or CSV), optionally a previous guesses
file, and opens the interactive panel view. Press ? inside the session for the
command list; w writes the guesses file and Q writes and quits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, args[0])
	},
}

func init() {
	addSessionFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// sessionFlags maps command-line flags to config keys.
var sessionFlags = map[string]string{
	"out":          "out_file",
	"fwhm":         "fwhm",
	"n-max-tuple":  "n_max_tuple",
	"min-strength": "min_strength",
	"min-ew":       "min_ew",
	"catalog":      "catalog_path",
	"telemetry":    "telemetry_dir",
	"list":         "line_list",
}

// addSessionFlags declares the flags shared by every command that builds a
// session.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "IGM_model.json", "guesses file to write")
	cmd.Flags().StringP("previous", "p", "", "previous guesses file to load")
	cmd.Flags().Float64("fwhm", 3, "instrumental FWHM in pixels")
	cmd.Flags().Int("n-max-tuple", 0, "maximum transitions shown per ion (0 = all)")
	cmd.Flags().Float64("min-strength", 0, "minimum transition strength shown")
	cmd.Flags().Float64("min-ew", 0.005, "rest equivalent width below which lines are not fitted (A)")
	cmd.Flags().String("catalog", "", "transition catalog TOML (default: built-in; reloaded on change)")
	cmd.Flags().String("telemetry", ".igmguesses/telemetry", "directory for session event logs (empty disables)")
	cmd.Flags().String("list", linelist.ListISM, "starting line list: ISM, Strong or HI")
	cmd.Flags().Float64("z", 0, "starting redshift")
	cmd.Flags().Bool("no-residuals", false, "do not draw residuals")
}

// loadConfig binds the command's flags that are present and loads the
// configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	for flag, key := range sessionFlags {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if noRes, _ := cmd.Flags().GetBool("no-residuals"); noRes {
		cfg.PlotResiduals = false
	}
	return cfg, nil
}

// sessionConfig converts the loaded configuration for the controller.
func sessionConfig(cfg config.Config, z float64) (session.Config, error) {
	sc := session.DefaultConfig()
	sc.FWHM = cfg.FWHM
	sc.MinEW = cfg.MinEW
	sc.MinStrength = cfg.MinStrength
	sc.NMaxTuple = cfg.NMaxTuple
	sc.Z = z
	sc.List = cfg.LineList
	sc.VelocityWindow = cfg.Window()
	sc.Residuals = cfg.PlotResiduals
	sc.MaxIterations = cfg.Fit.MaxIterations
	sc.ObjectiveTol = cfg.Fit.ObjectiveTol
	sc.OutFile = cfg.OutFile
	if len(cfg.Palette) > 0 {
		pal, err := render.ParsePalette(cfg.Palette)
		if err != nil {
			return session.Config{}, fmt.Errorf("palette: %w", err)
		}
		sc.Palette = pal
	}
	return sc, nil
}

// loaded is everything a session needs before the controller exists.
type loaded struct {
	cfg      config.Config
	spec     *spectrum.Spectrum
	cat      *linelist.Catalog
	reg      *component.Registry
	warnings []component.Warning
}

// loadInputs reads the spectrum, the catalog and, when given, a previous
// guesses file decoded against them.
func loadInputs(cfg config.Config, specPath, previous string) (*loaded, error) {
	spec, err := spectrum.Read(specPath)
	if err != nil {
		return nil, err
	}
	cat, err := linelist.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	l := &loaded{cfg: cfg, spec: spec, cat: cat}
	if previous == "" {
		return l, nil
	}
	f, err := guesses.Load(previous)
	if err != nil {
		return nil, err
	}
	l.reg, l.warnings, err = guesses.Decode(f, guesses.Options{
		Catalog:        cat,
		Spectrum:       spec,
		FWHM:           cfg.FWHM,
		MinEW:          cfg.MinEW,
		VelocityWindow: cfg.Window(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", previous, err)
	}
	return l, nil
}

// newController builds a controller from loaded inputs.
func newController(l *loaded, z float64) (*session.Controller, error) {
	sc, err := sessionConfig(l.cfg, z)
	if err != nil {
		return nil, err
	}
	return session.New(l.spec, l.cat, l.reg, sc)
}

func runSession(cmd *cobra.Command, specPath string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	previous, _ := cmd.Flags().GetString("previous")
	z, _ := cmd.Flags().GetFloat64("z")

	printer := ui.New()
	printer.Banner()
	l, err := loadInputs(cfg, specPath, previous)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	printer.Warnings(l.warnings)

	ctrl, err := newController(l, z)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	var emitter *telemetry.Emitter
	if cfg.TelemetryDir != "" {
		emitter, err = telemetry.NewSession(cfg.TelemetryDir)
		if err != nil {
			printer.Warnings([]component.Warning{{Msg: "telemetry disabled: " + err.Error()}})
		} else {
			defer emitter.Close()
		}
	}

	var watcher *tui.CatalogWatcher
	if cfg.CatalogPath != "" {
		watcher, err = tui.WatchCatalog(cfg.CatalogPath)
		if err != nil {
			printer.Warnings([]component.Warning{{Msg: "catalog reload disabled: " + err.Error()}})
		} else {
			defer watcher.Close()
		}
	}

	printer.SessionSummary(specPath, l.spec.Len(), cfg.FWHM, ctrl.Registry().Len(), cfg.OutFile)
	err = tui.Run(ctrl, tui.Options{
		Spectrum: filepath.Base(specPath),
		Watcher:  watcher,
		Start:    ctrl.Start(emitter),
	})
	if err != nil {
		return err
	}
	printer.Info(fmt.Sprintf("session ended with %d component(s)", ctrl.Registry().Len()))
	return nil
}
