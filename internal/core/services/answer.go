package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driving"
	"github.com/tessellate-labs/quill-cli/internal/logger"
)

// defaultAnswerSystemPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerSystemPrompt = `You are a careful assistant that answers questions using the provided context.
Ground every claim in the context and cite blocks by their [n] label.
If the context does not contain the answer, say so instead of guessing.`

// noContextNotice is appended to the system prompt when retrieval found
// nothing, so the model knows it is answering without grounding.
const noContextNotice = `No grounding context was found in the document store for this question.
Answer from general knowledge, and state clearly that the answer is not grounded in the user's documents.`

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// AnswerService is the end-to-end question-answering orchestrator: breakdown,
// retrieval, re-ranking, grounded prompt construction, and generation.
type AnswerService struct {
	retriever *Retriever
	llm       driven.LLMService
	history   driving.HistoryService
	prompts   driven.PromptStore
}

// NewAnswerService creates an answer service. The history parameter is
// optional (can be nil); without it, answers are stateless.
func NewAnswerService(retriever *Retriever, llm driven.LLMService, history driving.HistoryService) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
		history:   history,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// The store is also passed through to the retriever.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
	if s.retriever != nil {
		s.retriever.SetPromptStore(store)
	}
}

// ProcessQuery answers a question grounded in the document store.
//
// Retrieval-stage failures are absorbed upstream and only thin the context;
// a failure of the final generation is terminal and wraps ErrGeneration.
// The session history is updated only after a successful generation, so a
// caller-level timeout never leaves history partially updated.
func (s *AnswerService) ProcessQuery(ctx context.Context, question, sessionID string) (domain.Answer, error) {
	if s.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	logger.Section("Answer Pipeline")
	logger.Debug("Question: %q, session: %q", question, sessionID)

	subQuestions := s.retriever.BreakdownQuestion(ctx, question)
	candidates := s.retriever.RetrieveContext(ctx, subQuestions)
	contexts := s.retriever.RerankContext(ctx, question, candidates)

	messages := s.buildMessages(question, sessionID, contexts)

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	if s.history != nil && sessionID != "" {
		s.history.AddMessage(sessionID, domain.RoleUser, question)
		s.history.AddMessage(sessionID, domain.RoleAssistant, answer)
	}

	logger.Info("Answered with %d grounding contexts", len(contexts))
	return domain.Answer{Text: answer, Contexts: contexts}, nil
}

// buildMessages assembles the grounded prompt: system instruction with
// labelled context blocks, the session's recent history, and the question.
func (s *AnswerService) buildMessages(question, sessionID string, contexts []domain.RankedContext) []domain.ChatMessage {
	var system strings.Builder
	system.WriteString(s.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt))

	if len(contexts) == 0 {
		system.WriteString("\n\n")
		system.WriteString(noContextNotice)
	} else {
		system.WriteString("\n\nContext:\n")
		for i, rctx := range contexts {
			fmt.Fprintf(&system, "\n[%d] %s\n%s\n", i+1, contextLabel(rctx.Chunk), rctx.Chunk.Content)
		}
	}

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: system.String()},
	}

	if s.history != nil && sessionID != "" {
		messages = append(messages, s.history.GetHistory(sessionID)...)
	}

	messages = append(messages, domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: question,
	})

	return messages
}

// loadPrompt returns the stored prompt template or the compiled-in default.
func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// contextLabel builds a citation-friendly source label for a context block.
func contextLabel(chunk domain.Chunk) string {
	title, _ := chunk.Metadata["title"].(string)
	source, _ := chunk.Metadata["source"].(string)

	switch {
	case title != "" && source != "":
		return fmt.Sprintf("%s (%s)", title, source)
	case title != "":
		return title
	case source != "":
		return source
	default:
		return chunk.ID
	}
}
