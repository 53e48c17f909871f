package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipt/internal/snippet"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a snippet interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("'snipt new' is interactive; use 'snipt add --shortcut S --snippet T' instead")
		}

		store, err := snippet.NewStore()
		if err != nil {
			return err
		}

		r := bufio.NewReader(os.Stdin)

		fmt.Print("Shortcut (bare or parameterized like greet(name)): ")
		shortcut, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		shortcut = strings.TrimSpace(shortcut)
		if _, _, err := snippet.ParseShortcut(shortcut); err != nil {
			return err
		}

		fmt.Println("Snippet body (finish with a single '.' on its own line):")
		var lines []string
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return err
			}
			line = strings.TrimRight(line, "\n")
			if line == "." {
				break
			}
			lines = append(lines, line)
		}
		body := strings.Join(lines, "\n")
		if body == "" {
			return fmt.Errorf("empty snippet body")
		}

		if err := store.Add(shortcut, body); err != nil {
			return err
		}

		fmt.Printf("Added %q (%s).\n", shortcut, snippet.Classify(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
