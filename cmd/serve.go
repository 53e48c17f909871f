package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/api"
	"github.com/fakeyudi/snipt/internal/daemon"
	"github.com/fakeyudi/snipt/internal/snippet"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control API in the foreground (without the observer)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snippet.NewStore()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = GetConfig().APIPort
		}

		server := &api.Server{
			Store: store,
			Probe: func() (bool, int) {
				status, pid := daemon.Probe()
				return status == daemon.Running, pid
			},
			Log: log.New(os.Stderr),
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return server.ListenAndServe(ctx, port)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to bind (defaults to the configured port)")
	rootCmd.AddCommand(serveCmd)
}
