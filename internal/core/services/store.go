package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driving"
	"github.com/tessellate-labs/quill-cli/internal/logger"
	"github.com/tessellate-labs/quill-cli/internal/postprocessors/chunker"
)

// Ensure StoreService implements the interface.
var _ driving.StoreService = (*StoreService)(nil)

// StoreService ingests documents into the vector index and searches them.
// The write path (AddDocuments, DeleteChunk, Clear) holds the writer lock,
// so writes are mutually exclusive with Search and with each other.
type StoreService struct {
	mu       sync.RWMutex
	splitter *chunker.Splitter
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewStoreService creates a store service around the given collaborators.
func NewStoreService(
	splitter *chunker.Splitter,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *StoreService {
	return &StoreService{
		splitter: splitter,
		embedder: embedder,
		index:    index,
	}
}

// AddDocuments chunks, embeds, and persists the given documents.
// Returns the generated chunk ids in chunk order.
func (s *StoreService) AddDocuments(ctx context.Context, docs []domain.Document) ([]string, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Document Ingestion")
	logger.Debug("Documents: %d", len(docs))

	var chunks []domain.Chunk
	var texts []string
	for i := range docs {
		docChunks := s.splitter.Split(docs[i])
		for _, chunk := range docChunks {
			chunks = append(chunks, chunk)
			texts = append(texts, chunk.Content)
		}
	}

	if len(chunks) == 0 {
		logger.Debug("No chunks produced, nothing to ingest")
		return []string{}, nil
	}
	logger.Debug("Chunks: %d", len(chunks))

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d embeddings for %d chunks",
			len(embeddings), len(chunks))
	}

	dims := s.embedder.Dimensions()
	for i := range chunks {
		if dims > 0 && len(embeddings[i]) != dims {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(embeddings[i]), dims)
		}
		chunks[i].Embedding = embeddings[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Add(ctx, chunks); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}

	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
	}

	logger.Info("Ingested %d chunks from %d documents", len(chunks), len(docs))
	return ids, nil
}

// AddTexts wraps raw strings into documents and ingests them.
func (s *StoreService) AddTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error) {
	docs := make([]domain.Document, len(texts))
	for i, text := range texts {
		var metadata map[string]any
		if i < len(metadatas) {
			metadata = metadatas[i]
		}
		docs[i] = domain.Document{Content: text, Metadata: metadata}
	}
	return s.AddDocuments(ctx, docs)
}

// Search embeds the query and returns the nearest chunks ascending by
// cosine distance. An empty store yields an empty slice, not an error.
func (s *StoreService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results, err := s.index.Search(ctx, embedding, limit, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Search %q: %d results", query, len(results))
	return results, nil
}

// DeleteChunk removes one chunk by id. Deleting an absent id is tolerated:
// the index treats it as a no-op rather than an error.
func (s *StoreService) DeleteChunk(ctx context.Context, id string) error {
	if s.index == nil {
		return domain.ErrVectorIndexUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Delete(ctx, id)
}

// DeleteSource removes every chunk ingested from the given source path.
// Returns how many were removed; an unknown source removes zero.
func (s *StoreService) DeleteSource(ctx context.Context, source string) (int, error) {
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return 0, fmt.Errorf("%w: empty source", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.index.DeleteWhere(ctx, map[string]any{"source": source})
	if err != nil {
		return 0, fmt.Errorf("delete source %s: %w", source, err)
	}
	if removed > 0 {
		logger.Debug("Removed %d chunks for source %s", removed, source)
	}
	return removed, nil
}

// Clear removes all chunks. Idempotent; clearing an empty store succeeds.
func (s *StoreService) Clear(ctx context.Context) error {
	if s.index == nil {
		return domain.ErrVectorIndexUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.DeleteAll(ctx)
}

// Count returns the current chunk count.
func (s *StoreService) Count(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Count(ctx)
}
