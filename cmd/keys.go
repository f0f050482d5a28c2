package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/igmguesses/internal/session"
	"github.com/papapumpkin/igmguesses/internal/ui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the interactive session's key commands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.New().ShowHelp(session.HelpText)
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
