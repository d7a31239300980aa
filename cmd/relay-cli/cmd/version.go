package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/relay/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of relay-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "relay-cli %s\n", app.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
