package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all indexed chunks",
	Long: `Removes every chunk from the vector index. The configuration and prompt
files are left untouched. Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return errors.New("vector index not configured")
	}

	count, err := vectorIndex.Count(cmd.Context())
	if err != nil {
		return err
	}
	if count == 0 {
		cmd.Println("Index is already empty.")
		return nil
	}

	if !clearYes {
		cmd.Printf("Delete all %d chunks? [y/N] ", count)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return scanner.Err()
		}
		reply := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if reply != "y" && reply != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := vectorIndex.DeleteAll(cmd.Context()); err != nil {
		return err
	}
	cmd.Printf("Deleted %d chunks.\n", count)
	return nil
}
