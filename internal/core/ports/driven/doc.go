// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorIndex: Chunk persistence and cosine-distance search
//   - EmbeddingService: Generates vector embeddings for chunks and queries
//   - LLMService: Language model completion for breakdown, re-ranking,
//     and answer generation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-customisable prompt templates. Without it,
//     compiled-in defaults are used.
//   - SettingsStore: Configuration persistence. Without it, defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
