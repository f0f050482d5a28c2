package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "igmguesses [spectrum]",
	Short: "Interactive absorption-component guesses for IGM spectra",
	Long: `igmguesses displays a normalized quasar spectrum as velocity panels around
the transitions available at a redshift, and lets you define, fit and edit
Voigt-profile absorption components by pointing and pressing keys. The
components are written to a JSON guesses file.

With a spectrum argument the interactive session starts directly; it is the
same as "igmguesses run <spectrum>".`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRootDefault,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .igmguesses.yaml)")
	addSessionFlags(rootCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".igmguesses")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("IGMGUESSES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault starts a session when a spectrum is given and shows help
// otherwise.
func runRootDefault(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return runSession(cmd, args[0])
}
