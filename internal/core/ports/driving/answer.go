package driving

import (
	"context"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

// AnswerService answers questions grounded in the document store, with
// conversational continuity per session.
type AnswerService interface {
	// ProcessQuery decomposes the question, retrieves and re-ranks grounding
	// context, and generates an answer. When sessionID is non-empty, the
	// session's recent history is included in the prompt and the exchange is
	// appended to it after a successful generation. A failure of the final
	// generation is terminal and wraps domain.ErrGeneration.
	ProcessQuery(ctx context.Context, question, sessionID string) (domain.Answer, error)
}
