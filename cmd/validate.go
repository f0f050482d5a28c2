package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/igmguesses/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <guesses.json>",
	Short: "Check a guesses file against a spectrum",
	Long: `Decodes a guesses file against a spectrum and the transition catalog, re-runs
line synchronization and masking on every component, and reports warnings.
A configuration error, such as a FWHM that differs from the file's, exits
non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("spectrum", "", "spectrum the guesses were made on (required)")
	_ = validateCmd.MarkFlagRequired("spectrum")
	validateCmd.Flags().Float64("fwhm", 3, "instrumental FWHM in pixels")
	validateCmd.Flags().Float64("min-ew", 0.005, "rest equivalent width below which lines are not fitted (A)")
	validateCmd.Flags().String("catalog", "", "transition catalog TOML (default: built-in)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specPath, _ := cmd.Flags().GetString("spectrum")

	printer := ui.New()
	l, err := loadInputs(cfg, specPath, args[0])
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	warnings := l.warnings
	comps := l.reg.All()
	for _, c := range comps {
		c.Sync()
		warnings = append(warnings, c.Remask(cfg.MinEW)...)
	}
	printer.ComponentTable(comps)
	printer.ValidateResult(args[0], len(comps), warnings)
	return nil
}
