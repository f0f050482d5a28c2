package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the transitions available at a redshift",
	Long: `Prints the transitions of a line list whose observed wavelength at --z falls
inside an observed range, filtered and ordered exactly as the interactive
session pages them. The range comes from --wvmin/--wvmax or from the coverage
of --spectrum.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().Float64("z", 0, "redshift")
	catalogCmd.Flags().Float64("wvmin", 0, "minimum observed wavelength (A)")
	catalogCmd.Flags().Float64("wvmax", 0, "maximum observed wavelength (A)")
	catalogCmd.Flags().String("spectrum", "", "take the observed range from this spectrum")
	catalogCmd.Flags().String("list", linelist.ListISM, "line list: ISM, Strong or HI")
	catalogCmd.Flags().String("catalog", "", "transition catalog TOML (default: built-in)")
	catalogCmd.Flags().Int("n-max-tuple", 0, "maximum transitions per ion (0 = all)")
	catalogCmd.Flags().Float64("min-strength", 0, "minimum transition strength")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	z, _ := cmd.Flags().GetFloat64("z")
	wvmin, _ := cmd.Flags().GetFloat64("wvmin")
	wvmax, _ := cmd.Flags().GetFloat64("wvmax")
	if specPath, _ := cmd.Flags().GetString("spectrum"); specPath != "" {
		spec, err := spectrum.Read(specPath)
		if err != nil {
			return err
		}
		wvmin, wvmax = spec.Coverage()
	}
	if !(wvmin < wvmax) {
		return errors.New("catalog: need --wvmin < --wvmax or --spectrum")
	}
	if z <= -1 {
		return fmt.Errorf("catalog: redshift must exceed -1, got %g", z)
	}

	cat, err := linelist.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	avail, err := cat.Available(cfg.LineList, wvmin/(1+z), wvmax/(1+z), cfg.NMaxTuple, cfg.MinStrength)
	if err != nil {
		return err
	}
	printer := ui.New()
	printer.Info(fmt.Sprintf("%d %s transition(s) in %.2f-%.2f A at z=%.5f", len(avail), cfg.LineList, wvmin, wvmax, z))
	printer.TransitionTable(cat, avail, z)
	return nil
}
