package services

import (
	"context"
	"fmt"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings are deterministic per text via the vectors map; texts with no
// entry get the fallback vector.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	dims     int
	embedErr error
}

func newMockEmbedder(dims int) *mockEmbeddingService {
	fallback := make([]float32, dims)
	fallback[0] = 1
	return &mockEmbeddingService{
		vectors:  make(map[string][]float32),
		fallback: fallback,
		dims:     dims,
	}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dims
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
// Generate responses are consumed from the queue in order; once the queue
// is empty, generateResult is returned.
type mockLLMService struct {
	generateQueue  []string
	generateResult string
	generateErr    error

	chatResult   string
	chatErr      error
	chatMessages [][]domain.ChatMessage

	generateCalls int
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	m.generateCalls++
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if len(m.generateQueue) > 0 {
		response := m.generateQueue[0]
		m.generateQueue = m.generateQueue[1:]
		return response, nil
	}
	return m.generateResult, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []domain.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.chatMessages = append(m.chatMessages, messages)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResult, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing error paths.
// For behavioural tests prefer the real memory index.
type mockVectorIndex struct {
	results   []domain.SearchResult
	addErr    error
	searchErr error
	added     []domain.Chunk
}

func (m *mockVectorIndex) Add(_ context.Context, chunks []domain.Chunk) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockVectorIndex) DeleteAll(_ context.Context) error {
	return nil
}

func (m *mockVectorIndex) DeleteWhere(_ context.Context, _ map[string]any) (int, error) {
	return 0, nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int, _ map[string]any) ([]domain.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	return len(m.added), nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockStoreService implements driving.StoreService with canned per-query
// search results.
type mockStoreService struct {
	resultsByQuery map[string][]domain.SearchResult
	searchErr      error
}

func (m *mockStoreService) AddDocuments(_ context.Context, docs []domain.Document) ([]string, error) {
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = fmt.Sprintf("doc-%d", i)
	}
	return ids, nil
}

func (m *mockStoreService) AddTexts(_ context.Context, texts []string, _ []map[string]any) ([]string, error) {
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprintf("text-%d", i)
	}
	return ids, nil
}

func (m *mockStoreService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	results := m.resultsByQuery[query]
	if opts.Limit > 0 && opts.Limit < len(results) {
		results = results[:opts.Limit]
	}
	return results, nil
}

func (m *mockStoreService) DeleteChunk(_ context.Context, _ string) error {
	return nil
}

func (m *mockStoreService) DeleteSource(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (m *mockStoreService) Clear(_ context.Context) error {
	return nil
}

func (m *mockStoreService) Count(_ context.Context) (int, error) {
	return 0, nil
}

// --- Test helpers ---

func searchResult(id string, distance float64) domain.SearchResult {
	return domain.SearchResult{
		Chunk: domain.Chunk{
			ID:      id,
			Content: "content of " + id,
		},
		Distance: distance,
	}
}
