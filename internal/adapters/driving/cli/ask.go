package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about your documents",
	Long: `Answers one question using the ingested documents as grounding context.
Each invocation stands alone; for a conversation with follow-up
questions use 'quill chat'.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "show the context chunks used")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured (is an LLM provider set up?)")
	}

	// A one-shot query carries no session: history lives in process memory
	// and would be gone before a second invocation could use it.
	answer, err := answerService.ProcessQuery(cmd.Context(), args[0], "")
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(answer.Text)

	if askShowSources && len(answer.Contexts) > 0 {
		cmd.Println()
		printSources(cmd, answer.Contexts)
	}
	return nil
}

// printSources lists the context chunks an answer was grounded in.
func printSources(cmd *cobra.Command, contexts []domain.RankedContext) {
	cmd.Println("Sources:")
	for i, rc := range contexts {
		label := rc.Chunk.ID
		if title, ok := rc.Chunk.Metadata["title"].(string); ok && title != "" {
			label = title
		} else if source, ok := rc.Chunk.Metadata["source"].(string); ok && source != "" {
			label = source
		}
		cmd.Printf("  [%d] %s (relevance %.2f)\n", i+1, label, rc.RerankScore)
	}
}
