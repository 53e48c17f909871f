package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/snippet"
)

var (
	updateShortcut string
	updateSnippet  string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing snippet",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snippet.NewStore()
		if err != nil {
			return err
		}
		if err := store.Update(updateShortcut, updateSnippet); err != nil {
			return err
		}
		fmt.Printf("Updated %q.\n", updateShortcut)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateShortcut, "shortcut", "", "Shortcut key to update")
	updateCmd.Flags().StringVar(&updateSnippet, "snippet", "", "New snippet body")
	_ = updateCmd.MarkFlagRequired("shortcut")
	_ = updateCmd.MarkFlagRequired("snippet")
	rootCmd.AddCommand(updateCmd)
}
