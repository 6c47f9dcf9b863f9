package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and index state",
	Long: `Displays the active configuration, the vector backend, and how many
chunks are currently indexed. Does not contact any AI provider.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return errors.New("vector index not configured")
	}

	count, err := vectorIndex.Count(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Config:           %s\n", settingsStore.Path())
	cmd.Printf("Vector backend:   %s\n", appSettings.Storage.Backend)
	cmd.Printf("Indexed chunks:   %d\n", count)
	cmd.Println()

	printProvider(cmd, "Embedding", string(appSettings.Embedding.Provider), appSettings.Embedding.Model)
	printProvider(cmd, "LLM", string(appSettings.LLM.Provider), appSettings.LLM.Model)

	cmd.Println()
	cmd.Printf("Chunking:         size %d, overlap %d\n", appSettings.Chunking.Size, appSettings.Chunking.Overlap)
	cmd.Printf("Retrieval:        %d per sub-question, top %d after re-rank\n",
		appSettings.Retrieval.PerQuestionK, appSettings.Retrieval.TopN)
	cmd.Printf("History:          %d exchanges per session\n", appSettings.History.MaxExchanges)

	return nil
}

func printProvider(cmd *cobra.Command, label, provider, model string) {
	if provider == "" {
		cmd.Printf("%-17s not configured\n", label+":")
		return
	}
	if model == "" {
		model = "(default model)"
	}
	cmd.Printf("%-17s %s, %s\n", label+":", provider, model)
}
