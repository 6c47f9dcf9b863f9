package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies the backing implementation of the vector index.
type VectorBackend string

// Available vector index backends.
const (
	// VectorBackendMemory keeps chunks in process memory. Fast, not durable.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendSQLite persists chunks in a local SQLite database.
	VectorBackendSQLite VectorBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendMemory, VectorBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendMemory:
		return "In-memory (not persisted)"
	case VectorBackendSQLite:
		return "SQLite (persisted)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider" validate:"omitempty,oneof=ollama openai anthropic"`

	// Model is the embedding model name. Empty selects the provider default.
	Model string `toml:"model"`

	// APIKey authenticates against cloud providers.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider endpoint (Azure, proxies, local hosts).
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
}

// IsConfigured returns true if a provider has been selected.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// LLMSettings configures the language model provider.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `toml:"provider" validate:"omitempty,oneof=ollama openai anthropic"`

	// Model is the chat model name. Empty selects the provider default.
	Model string `toml:"model"`

	// APIKey authenticates against cloud providers.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url" validate:"omitempty,url"`

	// RequestsPerSecond caps the sustained request rate against the
	// provider. Zero disables client-side rate limiting.
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gte=0"`
}

// IsConfigured returns true if a provider has been selected.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// ChunkingSettings configures how documents are split during ingestion.
type ChunkingSettings struct {
	// Size is the target chunk size in characters.
	Size int `toml:"size" validate:"gt=0"`

	// Overlap is the number of characters shared by consecutive chunks.
	// Must be smaller than Size.
	Overlap int `toml:"overlap" validate:"gte=0,ltfield=Size"`
}

// RetrievalSettings configures the retrieve-and-rerank stage.
type RetrievalSettings struct {
	// PerQuestionK is how many chunks each sub-question retrieves.
	PerQuestionK int `toml:"per_question_k" validate:"gt=0"`

	// TopN is how many re-ranked contexts reach the final prompt.
	TopN int `toml:"top_n" validate:"gt=0"`
}

// HistorySettings configures conversational memory.
type HistorySettings struct {
	// MaxExchanges bounds a session to this many user/assistant pairs.
	MaxExchanges int `toml:"max_exchanges" validate:"gt=0"`
}

// StorageSettings configures the vector index backend.
type StorageSettings struct {
	// Backend selects the vector index implementation.
	Backend VectorBackend `toml:"backend" validate:"oneof=memory sqlite"`

	// DataDir is where the sqlite backend keeps its database.
	// Empty defaults to ~/.quill/data.
	DataDir string `toml:"data_dir"`
}

// Settings is the full application configuration.
type Settings struct {
	Embedding EmbeddingSettings `toml:"embedding"`
	LLM       LLMSettings       `toml:"llm"`
	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	History   HistorySettings   `toml:"history"`
	Storage   StorageSettings   `toml:"storage"`
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Chunking:  ChunkingSettings{Size: 1000, Overlap: 200},
		Retrieval: RetrievalSettings{PerQuestionK: 8, TopN: 4},
		History:   HistorySettings{MaxExchanges: 10},
		Storage:   StorageSettings{Backend: VectorBackendMemory},
	}
}
