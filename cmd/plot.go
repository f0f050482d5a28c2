package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/igmguesses/internal/render"
	"github.com/papapumpkin/igmguesses/internal/session"
	"github.com/papapumpkin/igmguesses/internal/ui"
)

var plotCmd = &cobra.Command{
	Use:   "plot <spectrum>",
	Short: "Render one page of velocity panels to PNG",
	Long: `Builds the same velocity panels the interactive session shows (data, model,
residuals, bad pixels and component bounds) at a redshift and writes one page
as a PNG image.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	addSessionFlags(plotCmd)
	plotCmd.Flags().String("guesses", "", "guesses file whose components are drawn")
	plotCmd.Flags().String("png", "igmguesses.png", "PNG file to write")
	plotCmd.Flags().Int("page", 0, "page of the transition list to draw, from 0")
	plotCmd.Flags().Bool("large", false, "use the 5x3 layout instead of 3x2")
	plotCmd.Flags().Bool("labels", false, "label identified lines")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	guessPath, _ := cmd.Flags().GetString("guesses")
	pngPath, _ := cmd.Flags().GetString("png")
	page, _ := cmd.Flags().GetInt("page")
	large, _ := cmd.Flags().GetBool("large")
	labels, _ := cmd.Flags().GetBool("labels")
	z, _ := cmd.Flags().GetFloat64("z")

	printer := ui.New()
	l, err := loadInputs(cfg, args[0], guessPath)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	printer.Warnings(l.warnings)
	ctrl, err := newController(l, z)
	if err != nil {
		return err
	}

	// Drive the layout through the same commands the session uses.
	var keys []string
	if large {
		keys = append(keys, "(")
	}
	for range page {
		keys = append(keys, "=")
	}
	if labels {
		keys = append(keys, "L")
	}
	for _, k := range keys {
		if out := ctrl.Dispatch(session.Command{Key: k, Cursor: session.NoCursor}); out.Err != nil {
			return out.Err
		}
	}

	v := ctrl.View()
	if len(v.Panels) == 0 {
		return fmt.Errorf("no %s transitions fall inside the spectrum at z=%.5f", v.List, v.Z)
	}
	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	title := fmt.Sprintf("%s z=%.5f", filepath.Base(args[0]), v.Z)
	if err := render.WritePNG(f, v.Panels, v.Rows, v.Cols, title); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	printer.Success(fmt.Sprintf("wrote %d panel(s) to %s", len(v.Panels), pngPath))
	return nil
}
