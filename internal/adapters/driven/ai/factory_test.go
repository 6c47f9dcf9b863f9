package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
)

type fakeLLM struct {
	generateCalls int
	chatCalls     int
	closed        bool
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	f.generateCalls++
	return "generated", nil
}

func (f *fakeLLM) Chat(_ context.Context, _ []domain.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.chatCalls++
	return "chatted", nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func (f *fakeLLM) Ping(_ context.Context) error { return nil }

func (f *fakeLLM) Close() error {
	f.closed = true
	return nil
}

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("anthropic has no embeddings API", func(t *testing.T) {
		_, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not support embeddings")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: "skynet"})
		require.Error(t, err)
	})
}

func TestCreateLLMService_UnknownProvider(t *testing.T) {
	_, err := CreateLLMService(&domain.LLMSettings{Provider: "skynet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestCreateAndValidate_Unconfigured(t *testing.T) {
	_, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{})
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = CreateAndValidateEmbeddingService(nil)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = CreateAndValidateLLMService(&domain.LLMSettings{})
	require.ErrorIs(t, err, domain.ErrLLMUnavailable)

	_, err = CreateAndValidateLLMService(nil)
	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestInitResult_Close(t *testing.T) {
	llm := &fakeLLM{}
	result := &InitResult{LLMService: llm}

	result.Close()
	assert.True(t, llm.closed)

	// A nil embedding service must not panic.
	(&InitResult{}).Close()
}

func TestRateLimitedLLM_Delegates(t *testing.T) {
	inner := &fakeLLM{}
	limited := NewRateLimitedLLM(inner, 100)

	out, err := limited.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "generated", out)
	assert.Equal(t, 1, inner.generateCalls)

	out, err = limited.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "chatted", out)
	assert.Equal(t, 1, inner.chatCalls)

	assert.Equal(t, "fake-model", limited.ModelName())
	require.NoError(t, limited.Ping(context.Background()))
	require.NoError(t, limited.Close())
	assert.True(t, inner.closed)
}

func TestRateLimitedLLM_RespectsContextCancellation(t *testing.T) {
	inner := &fakeLLM{}
	// Rate so low the bucket cannot refill within the test.
	limited := NewRateLimitedLLM(inner, 0.001)

	// Drain the burst allowance.
	for i := 0; i < defaultBurst; i++ {
		_, err := limited.Generate(context.Background(), "p", driven.GenerateOptions{})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := limited.Generate(ctx, "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, defaultBurst, inner.generateCalls, "throttled call must not reach the provider")
}
