package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/api"
	"github.com/fakeyudi/snipt/internal/config"
)

var apiStatusCmd = &cobra.Command{
	Use:   "api-status",
	Short: "Check the control API health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := api.DiscoverPort(GetConfig().APIPort)
		if err := api.CheckHealth(port); err != nil {
			return err
		}
		cmd.Printf("control API is healthy on port %d\n", port)
		return nil
	},
}

var apiDiagnoseCmd = &cobra.Command{
	Use:   "api-diagnose",
	Short: "Diagnose control API connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath, err := config.PortPath()
		if err != nil {
			return err
		}

		recorded, err := api.ReadPortFile()
		switch {
		case err != nil:
			cmd.Printf("port file %s: %v\n", portPath, err)
		case recorded == 0:
			cmd.Printf("port file %s: absent\n", portPath)
		default:
			cmd.Printf("port file %s: %d\n", portPath, recorded)
		}

		base := GetConfig().APIPort
		found := false
		for port := base; port < base+10; port++ {
			if err := api.CheckHealth(port); err == nil {
				cmd.Printf("port %d: healthy\n", port)
				found = true
			}
		}
		if !found {
			return fmt.Errorf("no healthy control API on ports %d-%d; is the daemon running?", base, base+9)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(apiStatusCmd)
	rootCmd.AddCommand(apiDiagnoseCmd)
}
