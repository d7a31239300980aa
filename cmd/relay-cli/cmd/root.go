package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relay-cli",
	Short: "relay CLI tool",
	Long: `relay-cli is a command-line client for the relay chat server.

Available commands:
  chat      Join a relay server and chat from the terminal
  topics    Explore the activity events published on the server's event bus
  version   Print the CLI version

Use "relay-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
