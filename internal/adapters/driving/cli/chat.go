package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-answering session",
	Long: `Starts an interactive session where follow-up questions see the
conversation so far. History is bounded to the configured number of
exchanges and lives only for the duration of the session.

Commands inside the session:
  /clear  forget the conversation so far
  /exit   leave the session (Ctrl+D also works)`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured (is an LLM provider set up?)")
	}

	sessionID := uuid.New().String()
	cmd.Println("Quill chat. Ask about your documents (/clear, /exit).")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/exit", line == "/quit":
			return nil
		case line == "/clear":
			historyService.ClearHistory(sessionID)
			cmd.Println("History cleared.")
			continue
		}

		answer, err := answerService.ProcessQuery(cmd.Context(), line, sessionID)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}

		cmd.Println(answer.Text)
		cmd.Println()
	}
}
