package driven

import (
	"context"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

// VectorIndex persists chunks and provides cosine-distance search over their
// embeddings. Implementations must be safe for concurrent use; the write
// methods (Add, Delete, DeleteAll) are mutually exclusive with Search and
// with each other on the same index instance.
type VectorIndex interface {
	// Add inserts chunks with their embeddings. Every embedding must match
	// the dimensionality of chunks already in the index; a mismatch fails
	// with domain.ErrDimensionMismatch.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Delete removes one chunk by id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, chunkID string) error

	// DeleteAll removes every chunk. Idempotent; an empty index is fine.
	DeleteAll(ctx context.Context) error

	// DeleteWhere removes every chunk whose metadata satisfies filter
	// (exact-match conjunction, as in Search) and returns how many were
	// removed. A nil or empty filter removes nothing; use DeleteAll for
	// that.
	DeleteWhere(ctx context.Context, filter map[string]any) (int, error)

	// Search finds the k nearest chunks to the query vector by cosine
	// distance, restricted to chunks whose metadata satisfies filter
	// (exact-match conjunction) when filter is non-nil. Results are sorted
	// ascending by distance. An empty index yields an empty slice, not an
	// error.
	Search(ctx context.Context, query []float32, k int, filter map[string]any) ([]domain.SearchResult, error)

	// Count returns the number of chunks currently stored.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
