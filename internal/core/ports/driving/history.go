package driving

import "github.com/tessellate-labs/quill-cli/internal/core/domain"

// HistoryService provides per-session bounded conversational memory.
type HistoryService interface {
	// AddMessage appends to the session's sequence, creating the session
	// lazily. After the append, the oldest messages are evicted FIFO until
	// the configured bound is restored.
	AddMessage(sessionID, role, content string)

	// GetHistory returns the current bounded sequence, oldest first.
	// An unknown session id yields an empty slice, never an error.
	GetHistory(sessionID string) []domain.ChatMessage

	// ClearHistory empties one session's history. Idempotent.
	ClearHistory(sessionID string)
}
