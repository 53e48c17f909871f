package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/snippet"
)

var deleteShortcut string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a snippet",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snippet.NewStore()
		if err != nil {
			return err
		}
		if err := store.Delete(deleteShortcut); err != nil {
			return err
		}
		fmt.Printf("Deleted %q.\n", deleteShortcut)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteShortcut, "shortcut", "", "Shortcut key to delete")
	_ = deleteCmd.MarkFlagRequired("shortcut")
	rootCmd.AddCommand(deleteCmd)
}
