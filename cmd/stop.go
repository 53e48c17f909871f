package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/daemon"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the expansion daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := daemon.Stop(); err != nil {
			if errors.Is(err, daemon.ErrNotRunning) {
				return fmt.Errorf("snipt daemon is not running")
			}
			return err
		}
		fmt.Println("Daemon stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
