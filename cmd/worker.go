package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/daemon"
)

// workerCmd is the detached daemon entry point spawned by 'snipt start'.
// Hidden: users go through start/stop.
var workerCmd = &cobra.Command{
	Use:    "daemon-worker",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemon.RunWorker()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
