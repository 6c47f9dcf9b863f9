// Package cli implements the quill command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tessellate-labs/quill-cli/internal/adapters/driven/ai"
	"github.com/tessellate-labs/quill-cli/internal/adapters/driven/config/file"
	vecmemory "github.com/tessellate-labs/quill-cli/internal/adapters/driven/vector/memory"
	vecsqlite "github.com/tessellate-labs/quill-cli/internal/adapters/driven/vector/sqlite"
	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driving"
	"github.com/tessellate-labs/quill-cli/internal/core/services"
	"github.com/tessellate-labs/quill-cli/internal/logger"
	"github.com/tessellate-labs/quill-cli/internal/postprocessors/chunker"
)

// version is set via -ldflags at build time.
var version = "0.1.0-dev"

var (
	verboseFlag bool
	configDir   string
)

// Services wired by initServices and shared by all commands.
var (
	appSettings    domain.Settings
	settingsStore  driven.SettingsStore
	promptStore    driven.PromptStore
	aiServices     *ai.InitResult
	vectorIndex    driven.VectorIndex
	storeService   driving.StoreService
	answerService  driving.AnswerService
	historyService driving.HistoryService
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Question answering grounded in your own documents",
	Long: `Quill ingests plain-text documents into a vector index and answers
questions about them. Compound questions are broken into sub-questions,
relevant chunks are retrieved and re-ranked, and the answer is generated
from the retrieved context only.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command. It is the CLI entry point.
func Execute() {
	err := rootCmd.Execute()
	shutdownServices()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.quill)")
}

// commandsWithoutServices run without any wiring.
var commandsWithoutServices = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// commandsWithAI additionally require a reachable embedding provider.
var commandsWithAI = map[string]bool{
	"ingest": true,
	"ask":    true,
	"chat":   true,
	"search": true,
	"serve":  true,
}

// initServices loads configuration and wires the service graph for the
// invoked command. Commands that never touch the index (version, help)
// skip wiring entirely; commands that only inspect local state (status,
// clear) skip the provider connectivity checks.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if commandsWithoutServices[cmd.Name()] {
		return nil
	}

	// .env is optional; environment variables win over file settings
	// for credentials.
	_ = godotenv.Load()

	var err error
	settingsStore, err = file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}

	appSettings, err = settingsStore.Load()
	if err != nil {
		return err
	}
	applyEnvCredentials(&appSettings)
	logger.Debug("Loaded config from %s", settingsStore.Path())

	promptStore, err = file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	vectorIndex, err = openVectorIndex(appSettings.Storage)
	if err != nil {
		return err
	}

	historyService = services.NewHistoryService(appSettings.History.MaxExchanges)

	if !commandsWithAI[cmd.Name()] {
		return nil
	}

	aiServices, err = ai.Initialise(appSettings)
	if err != nil {
		return err
	}
	for _, warning := range aiServices.Warnings {
		logger.Warn("%s", warning)
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(appSettings.Chunking.Size),
		chunker.WithOverlap(appSettings.Chunking.Overlap),
	)
	if err != nil {
		return err
	}

	storeService = services.NewStoreService(splitter, aiServices.EmbeddingService, vectorIndex)

	retriever := services.NewRetriever(
		storeService,
		aiServices.LLMService,
		appSettings.Retrieval.PerQuestionK,
		appSettings.Retrieval.TopN,
	)
	retriever.SetPromptStore(promptStore)

	answer := services.NewAnswerService(retriever, aiServices.LLMService, historyService)
	answer.SetPromptStore(promptStore)
	answerService = answer

	return nil
}

// applyEnvCredentials fills missing API keys from the environment.
func applyEnvCredentials(settings *domain.Settings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = providerKeyFromEnv(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = providerKeyFromEnv(settings.LLM.Provider)
	}
}

func providerKeyFromEnv(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// openVectorIndex creates the vector index for the configured backend.
func openVectorIndex(storage domain.StorageSettings) (driven.VectorIndex, error) {
	switch storage.Backend {
	case domain.VectorBackendSQLite:
		return vecsqlite.NewIndex(storage.DataDir)
	case domain.VectorBackendMemory, "":
		return vecmemory.NewIndex(), nil
	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", storage.Backend)
	}
}

// shutdownServices releases everything initServices opened.
func shutdownServices() {
	if aiServices != nil {
		aiServices.Close()
	}
	if vectorIndex != nil {
		if err := vectorIndex.Close(); err != nil {
			logger.Warn("Close vector index: %v", err)
		}
	}
}
