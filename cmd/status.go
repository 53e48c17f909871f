package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/api"
	"github.com/fakeyudi/snipt/internal/daemon"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch status, pid := daemon.Probe(); status {
		case daemon.Running:
			cmd.Printf("snipt daemon is running with PID %d\n", pid)
			port := api.DiscoverPort(GetConfig().APIPort)
			if err := api.CheckHealth(port); err == nil {
				cmd.Printf("control API is healthy on port %d\n", port)
			} else {
				cmd.Printf("control API is not responding on port %d\n", port)
			}
		case daemon.Stale:
			cmd.Printf("PID file exists but process %d is not running\n", pid)
			cmd.Println("run 'snipt start' to clean up and start a new daemon")
		default:
			cmd.Println("snipt daemon is not running")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
