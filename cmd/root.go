package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/config"
)

// cfg holds the loaded configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "snipt",
	Short: "System-wide text expansion: type a shortcut, get the snippet",
	Long: `snipt watches your keyboard for trigger sequences and replaces them in place.

Type :shortcut for a literal expansion, or !shortcut to run the snippet
(script, built-in transform, parameterized template, command, or URL).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the loaded configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
