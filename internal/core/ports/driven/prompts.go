package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptBreakdown decomposes a compound question into atomic
	// sub-questions. The template expects a %s placeholder for the question.
	PromptBreakdown = "breakdown"

	// PromptRerank judges the relevance of a passage to a question.
	// The template expects %s (question) and %s (passage) placeholders.
	PromptRerank = "rerank"

	// PromptAnswerSystem is the system instruction for grounded answering.
	// This prompt has no format placeholders.
	PromptAnswerSystem = "answer_system"
)

// PromptStoreAware is an optional interface for services that can use custom
// prompts. Services implementing it can have their templates customised by
// injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses compiled-in default prompts.
	SetPromptStore(store PromptStore)
}
