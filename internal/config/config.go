// Package config loads session settings from .igmguesses.yaml, IGMGUESSES_*
// environment variables and bound command-line flags through viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ErrInvalid indicates a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

// FitConfig holds the Levenberg-Marquardt solver settings.
type FitConfig struct {
	MaxIterations int     `mapstructure:"max_iterations"`
	ObjectiveTol  float64 `mapstructure:"objective_tol"`
}

// Config holds all runtime configuration for an igmguesses session.
// Values are populated from .igmguesses.yaml, IGMGUESSES_* env vars, and CLI flags.
type Config struct {
	FWHM           float64   `mapstructure:"fwhm"`
	MinEW          float64   `mapstructure:"min_ew"`
	MinStrength    float64   `mapstructure:"min_strength"`
	NMaxTuple      int       `mapstructure:"n_max_tuple"`
	OutFile        string    `mapstructure:"out_file"`
	CatalogPath    string    `mapstructure:"catalog_path"`
	LineList       string    `mapstructure:"line_list"`
	PlotResiduals  bool      `mapstructure:"plot_residuals"`
	TelemetryDir   string    `mapstructure:"telemetry_dir"`
	VelocityWindow []float64 `mapstructure:"velocity_window"`
	Palette        []string  `mapstructure:"palette"`
	Fit            FitConfig `mapstructure:"fit"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("fwhm", 3.0)
	viper.SetDefault("min_ew", 0.005)
	viper.SetDefault("min_strength", 0.0)
	viper.SetDefault("n_max_tuple", 0)
	viper.SetDefault("out_file", "IGM_model.json")
	viper.SetDefault("catalog_path", "")
	viper.SetDefault("line_list", "ISM")
	viper.SetDefault("plot_residuals", true)
	viper.SetDefault("telemetry_dir", ".igmguesses/telemetry")
	viper.SetDefault("velocity_window", []float64{-500, 500})
	viper.SetDefault("palette", []string{})
	viper.SetDefault("fit.max_iterations", 200)
	viper.SetDefault("fit.objective_tol", 1e-12)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.FWHM <= 0:
		return fmt.Errorf("%w: fwhm must be positive, got %g", ErrInvalid, c.FWHM)
	case c.MinEW < 0:
		return fmt.Errorf("%w: min_ew must not be negative, got %g", ErrInvalid, c.MinEW)
	case c.NMaxTuple < 0:
		return fmt.Errorf("%w: n_max_tuple must not be negative, got %d", ErrInvalid, c.NMaxTuple)
	case len(c.VelocityWindow) != 2 || !(c.VelocityWindow[0] < c.VelocityWindow[1]):
		return fmt.Errorf("%w: velocity_window must be [min, max], got %v", ErrInvalid, c.VelocityWindow)
	case c.Fit.MaxIterations <= 0:
		return fmt.Errorf("%w: fit.max_iterations must be positive, got %d", ErrInvalid, c.Fit.MaxIterations)
	}
	return nil
}

// Window returns the velocity window as a pair.
func (c Config) Window() [2]float64 {
	return [2]float64{c.VelocityWindow[0], c.VelocityWindow[1]}
}
