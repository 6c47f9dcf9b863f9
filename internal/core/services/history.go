package services

import (
	"sync"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driving"
)

// DefaultMaxExchanges bounds a session to this many user/assistant pairs
// when no explicit bound is configured.
const DefaultMaxExchanges = 10

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService keeps per-session bounded conversational memory in process
// memory. History is counted in exchanges (message pairs), so a session
// holds at most 2*maxExchanges messages; the oldest are evicted FIFO.
//
// The mutex serialises concurrent appends for the same session; sessions
// are otherwise independent.
type HistoryService struct {
	mu           sync.RWMutex
	sessions     map[string][]domain.ChatMessage
	maxExchanges int
}

// NewHistoryService creates a history service bounded to maxExchanges
// user/assistant pairs per session.
func NewHistoryService(maxExchanges int) *HistoryService {
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	return &HistoryService{
		sessions:     make(map[string][]domain.ChatMessage),
		maxExchanges: maxExchanges,
	}
}

// AddMessage appends to the session's sequence, creating the session lazily.
// After the append, the oldest messages are evicted until the bound holds.
func (s *HistoryService) AddMessage(sessionID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(s.sessions[sessionID], domain.ChatMessage{
		Role:    role,
		Content: content,
	})

	if maxMessages := 2 * s.maxExchanges; len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}

	s.sessions[sessionID] = messages
}

// GetHistory returns a copy of the current bounded sequence, oldest first.
// An unknown session id yields an empty slice.
func (s *HistoryService) GetHistory(sessionID string) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.sessions[sessionID]
	out := make([]domain.ChatMessage, len(messages))
	copy(out, messages)
	return out
}

// ClearHistory empties one session's history. Idempotent.
func (s *HistoryService) ClearHistory(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
