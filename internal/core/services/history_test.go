package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

func TestHistoryService_RoundTrip(t *testing.T) {
	h := NewHistoryService(10)

	h.AddMessage("s1", domain.RoleUser, "hello")
	h.AddMessage("s1", domain.RoleAssistant, "hi there")

	messages := h.GetHistory("s1")
	require.Len(t, messages, 2)
	assert.Equal(t, domain.ChatMessage{Role: domain.RoleUser, Content: "hello"}, messages[0])
	assert.Equal(t, domain.ChatMessage{Role: domain.RoleAssistant, Content: "hi there"}, messages[1])
}

func TestHistoryService_UnknownSession(t *testing.T) {
	h := NewHistoryService(10)

	messages := h.GetHistory("never-seen")
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestHistoryService_Bound(t *testing.T) {
	h := NewHistoryService(2) // at most 4 messages

	for i := 1; i <= 5; i++ {
		h.AddMessage("s1", domain.RoleUser, fmt.Sprintf("question %d", i))
		h.AddMessage("s1", domain.RoleAssistant, fmt.Sprintf("answer %d", i))
	}

	messages := h.GetHistory("s1")
	require.Len(t, messages, 4)

	// Oldest exchanges evicted, newest retained in order.
	assert.Equal(t, "question 4", messages[0].Content)
	assert.Equal(t, "answer 4", messages[1].Content)
	assert.Equal(t, "question 5", messages[2].Content)
	assert.Equal(t, "answer 5", messages[3].Content)
}

func TestHistoryService_SessionsAreIndependent(t *testing.T) {
	h := NewHistoryService(10)

	h.AddMessage("s1", domain.RoleUser, "for session one")
	h.AddMessage("s2", domain.RoleUser, "for session two")

	require.Len(t, h.GetHistory("s1"), 1)
	require.Len(t, h.GetHistory("s2"), 1)
	assert.Equal(t, "for session one", h.GetHistory("s1")[0].Content)
	assert.Equal(t, "for session two", h.GetHistory("s2")[0].Content)
}

func TestHistoryService_ClearHistory(t *testing.T) {
	h := NewHistoryService(10)

	h.AddMessage("s1", domain.RoleUser, "hello")
	h.ClearHistory("s1")
	assert.Empty(t, h.GetHistory("s1"))

	// Clearing again, or clearing an unknown session, is fine.
	h.ClearHistory("s1")
	h.ClearHistory("never-seen")
}

func TestHistoryService_ReturnsCopy(t *testing.T) {
	h := NewHistoryService(10)
	h.AddMessage("s1", domain.RoleUser, "original")

	messages := h.GetHistory("s1")
	messages[0].Content = "mutated"

	assert.Equal(t, "original", h.GetHistory("s1")[0].Content)
}

func TestHistoryService_ConcurrentAppends(t *testing.T) {
	h := NewHistoryService(100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.AddMessage("s1", domain.RoleUser, fmt.Sprintf("message %d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, h.GetHistory("s1"), 20)
}

func TestHistoryService_DefaultBound(t *testing.T) {
	h := NewHistoryService(0)

	for i := 0; i < 3*DefaultMaxExchanges; i++ {
		h.AddMessage("s1", domain.RoleUser, "q")
		h.AddMessage("s1", domain.RoleAssistant, "a")
	}

	assert.Len(t, h.GetHistory("s1"), 2*DefaultMaxExchanges)
}
