package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/daemon"
)

var startForeground bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the expansion daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := daemon.Start(!startForeground); err != nil {
			if errors.Is(err, daemon.ErrAlreadyRunning) {
				return fmt.Errorf("snipt daemon is already running: %w", err)
			}
			return err
		}
		if !startForeground {
			_, pid := daemon.Probe()
			fmt.Printf("Daemon started with PID %d.\n", pid)
		}
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVar(&startForeground, "foreground", false, "Run in the foreground instead of detaching")
	rootCmd.AddCommand(startCmd)
}
