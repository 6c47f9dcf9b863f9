package domain

// Message roles used in chat history and LLM requests.
const (
	// RoleSystem is the system instruction role.
	RoleSystem = "system"

	// RoleUser is the human participant role.
	RoleUser = "user"

	// RoleAssistant is the model participant role.
	RoleAssistant = "assistant"
)

// ChatMessage is a single message in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// Session is a caller-scoped conversation. Messages are ordered oldest first
// and bounded by the history manager: once the configured maximum number of
// exchanges is exceeded, the oldest messages are evicted FIFO.
type Session struct {
	// ID is the caller-supplied session identifier.
	ID string

	// Messages is the bounded message sequence, oldest first.
	Messages []ChatMessage
}
