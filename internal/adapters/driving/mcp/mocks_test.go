package mcp

import (
	"context"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

// mockStoreService is a mock implementation of driving.StoreService.
type mockStoreService struct {
	results []domain.SearchResult
	count   int
	err     error
}

func (m *mockStoreService) AddDocuments(_ context.Context, docs []domain.Document) ([]string, error) {
	return make([]string, len(docs)), m.err
}

func (m *mockStoreService) AddTexts(_ context.Context, texts []string, _ []map[string]any) ([]string, error) {
	return make([]string, len(texts)), m.err
}

func (m *mockStoreService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockStoreService) DeleteChunk(_ context.Context, _ string) error {
	return m.err
}

func (m *mockStoreService) DeleteSource(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockStoreService) Clear(_ context.Context) error {
	return m.err
}

func (m *mockStoreService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   domain.Answer
	err      error
	question string
	session  string
}

func (m *mockAnswerService) ProcessQuery(_ context.Context, question, sessionID string) (domain.Answer, error) {
	m.question = question
	m.session = sessionID
	return m.answer, m.err
}

// mockVectorIndex implements the subset of driven.VectorIndex the status
// resource touches.
type mockVectorIndex struct {
	count int
	err   error
}

func (m *mockVectorIndex) Add(_ context.Context, _ []domain.Chunk) error {
	return m.err
}

func (m *mockVectorIndex) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockVectorIndex) DeleteAll(_ context.Context) error {
	return m.err
}

func (m *mockVectorIndex) DeleteWhere(_ context.Context, _ map[string]any) (int, error) {
	return 0, m.err
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, _ int, _ map[string]any) ([]domain.SearchResult, error) {
	return nil, m.err
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockVectorIndex) Close() error {
	return nil
}
