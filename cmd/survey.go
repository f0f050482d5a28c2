package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/igmguesses/internal/survey"
	"github.com/papapumpkin/igmguesses/internal/ui"
)

var surveyCmd = &cobra.Command{
	Use:   "survey <guesses.json>...",
	Short: "Tabulate components from one or more guesses files",
	Long: `Collects the components of several guesses files into one survey and prints
the selected columns as tab-separated values. --reliability and --min-logn
narrow the selection; they combine like successive mask updates.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSurvey,
}

func init() {
	surveyCmd.Flags().String("columns", "source,name,z,logN,b,reliability,lines", "comma-separated columns to print")
	surveyCmd.Flags().StringSlice("reliability", nil, "keep only these reliability flags")
	surveyCmd.Flags().Float64("min-logn", 0, "keep only components with logN at least this")
	surveyCmd.Flags().String("kind", "IGM", "survey label")
	rootCmd.AddCommand(surveyCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	colSpec, _ := cmd.Flags().GetString("columns")
	rels, _ := cmd.Flags().GetStringSlice("reliability")
	minLogN, _ := cmd.Flags().GetFloat64("min-logn")

	cols := strings.Split(colSpec, ",")
	for _, c := range cols {
		if _, ok := survey.Columns[c]; !ok {
			return fmt.Errorf("survey: unknown column %q", c)
		}
	}

	s, err := survey.Load(kind, args...)
	if err != nil {
		return err
	}
	if len(rels) > 0 {
		keep := s.Where(func(sys survey.System) bool { return slices.Contains(rels, sys.Reliability) })
		if err := s.UpdateMask(keep, true); err != nil {
			return err
		}
	}
	if minLogN > 0 {
		keep := s.Where(func(sys survey.System) bool { return sys.LogN >= minLogN })
		if err := s.UpdateMask(keep, true); err != nil {
			return err
		}
	}

	n := writeSurvey(cmd.OutOrStdout(), s, cols)
	ui.New().Info(fmt.Sprintf("%d of %d %s component(s) from %d file(s)", n, s.Len(), kind, len(args)))
	return nil
}

// writeSurvey prints a header and one tab-separated row per selected system,
// returning the number of rows.
func writeSurvey(w io.Writer, s *survey.Survey, cols []string) int {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	columns := make([][]string, len(cols))
	for i, c := range cols {
		columns[i] = survey.Field(s, survey.Columns[c])
	}
	if len(columns) == 0 {
		return 0
	}
	rows := len(columns[0])
	for r := 0; r < rows; r++ {
		cells := make([]string, len(cols))
		for i := range cols {
			cells[i] = columns[i][r]
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return rows
}
