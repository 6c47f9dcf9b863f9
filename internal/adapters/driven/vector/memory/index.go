// Package memory provides an in-memory vector index using brute-force
// cosine-distance search. Contents are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
// The dimensionality is fixed by the first chunk added.
type Index struct {
	mu     sync.RWMutex
	dims   int
	chunks map[string]domain.Chunk
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		chunks: make(map[string]domain.Chunk),
	}
}

// Add inserts chunks with their embeddings. A chunk with an existing id
// replaces the stored one.
func (idx *Index) Add(_ context.Context, chunks []domain.Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := range chunks {
		chunk := chunks[i]
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, chunk.ID)
		}
		if idx.dims == 0 {
			idx.dims = len(chunk.Embedding)
		}
		if len(chunk.Embedding) != idx.dims {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), idx.dims)
		}
		idx.chunks[chunk.ID] = chunk
	}

	return nil
}

// Delete removes one chunk by id. Absent ids are a no-op.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.chunks, chunkID)
	return nil
}

// DeleteAll removes every chunk. Idempotent.
func (idx *Index) DeleteAll(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = make(map[string]domain.Chunk)
	idx.dims = 0
	return nil
}

// DeleteWhere removes every chunk whose metadata satisfies filter and
// returns how many were removed. A nil or empty filter removes nothing.
func (idx *Index) DeleteWhere(_ context.Context, filter map[string]any) (int, error) {
	if len(filter) == 0 {
		return 0, nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	removed := 0
	for id, chunk := range idx.chunks {
		if matchesFilter(chunk.Metadata, filter) {
			delete(idx.chunks, id)
			removed++
		}
	}
	if len(idx.chunks) == 0 {
		idx.dims = 0
	}
	return removed, nil
}

// Search returns up to k chunks ascending by cosine distance to the query,
// restricted to chunks whose metadata satisfies filter when non-nil.
func (idx *Index) Search(_ context.Context, query []float32, k int, filter map[string]any) ([]domain.SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.chunks) == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dims)
	}
	if k <= 0 {
		return []domain.SearchResult{}, nil
	}

	results := make([]domain.SearchResult, 0, len(idx.chunks))
	for _, chunk := range idx.chunks {
		if !matchesFilter(chunk.Metadata, filter) {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk:    chunk,
			Distance: CosineDistance(query, chunk.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of chunks currently stored.
func (idx *Index) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks), nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// matchesFilter reports whether metadata contains every filter key with an
// equal value (exact-match conjunction). A nil or empty filter matches all.
func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// CosineDistance computes 1 - cosine_similarity of the two vectors, giving
// a distance in [0, 2] where smaller means more similar. A zero vector on
// either side yields the neutral distance 1.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
