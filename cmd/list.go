package cmd

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/snippet"
	"github.com/fakeyudi/snipt/internal/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse snippets in an interactive list",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snippet.NewStore()
		if err != nil {
			return err
		}
		sn, err := store.Load()
		if err != nil {
			return err
		}

		// Non-interactive (pipes, tests): print a plain table instead of
		// entering the alternate screen.
		if !term.IsTerminal(os.Stdout.Fd()) {
			for _, ix := range sn.Entries() {
				cmd.Printf("%s\t%s\t%s\n", ix.Entry.Shortcut, ix.Kind, ix.Entry.Timestamp.Format("2006-01-02 15:04"))
			}
			return nil
		}

		return tui.Run(sn)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
