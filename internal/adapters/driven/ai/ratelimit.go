package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
)

// Ensure RateLimitedLLM implements the interface.
var _ driven.LLMService = (*RateLimitedLLM)(nil)

// defaultBurst allows short bursts (e.g. re-ranking a batch of candidates)
// without throttling every call.
const defaultBurst = 4

// RateLimitedLLM wraps an LLMService with a token bucket rate limiter.
// Re-ranking issues one LLM call per candidate, so an unthrottled pipeline
// can easily trip provider rate limits.
type RateLimitedLLM struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// NewRateLimitedLLM wraps svc, limiting sustained throughput to
// requestsPerSecond.
func NewRateLimitedLLM(svc driven.LLMService, requestsPerSecond float64) *RateLimitedLLM {
	return &RateLimitedLLM{
		inner:   svc,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), defaultBurst),
	}
}

// Generate waits for a rate limit token, then delegates.
func (l *RateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.inner.Generate(ctx, prompt, opts)
}

// Chat waits for a rate limit token, then delegates.
func (l *RateLimitedLLM) Chat(ctx context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.inner.Chat(ctx, messages, opts)
}

// ModelName returns the wrapped service's model name.
func (l *RateLimitedLLM) ModelName() string {
	return l.inner.ModelName()
}

// Ping delegates without consuming a rate limit token.
func (l *RateLimitedLLM) Ping(ctx context.Context) error {
	return l.inner.Ping(ctx)
}

// Close releases the wrapped service's resources.
func (l *RateLimitedLLM) Close() error {
	return l.inner.Close()
}
