package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/api"
)

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Print the control API port",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println(api.DiscoverPort(GetConfig().APIPort))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portCmd)
}
