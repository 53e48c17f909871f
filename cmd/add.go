package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/snippet"
)

var (
	addShortcut string
	addSnippet  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a snippet",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snippet.NewStore()
		if err != nil {
			return err
		}
		if err := store.Add(addShortcut, addSnippet); err != nil {
			return err
		}
		fmt.Printf("Added %q.\n", addShortcut)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addShortcut, "shortcut", "", "Shortcut key, bare or parameterized: greet(name)")
	addCmd.Flags().StringVar(&addSnippet, "snippet", "", "Snippet body")
	_ = addCmd.MarkFlagRequired("shortcut")
	_ = addCmd.MarkFlagRequired("snippet")
	rootCmd.AddCommand(addCmd)
}
