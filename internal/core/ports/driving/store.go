package driving

import (
	"context"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

// StoreService manages the chunked-and-embedded representation of ingested
// text and exposes similarity search over it.
type StoreService interface {
	// AddDocuments chunks, embeds, and persists the given documents.
	// Returns the generated chunk ids in chunk order.
	AddDocuments(ctx context.Context, docs []domain.Document) ([]string, error)

	// AddTexts is a convenience wrapper over AddDocuments for raw strings.
	// metadatas may be nil or shorter than texts; missing entries get empty
	// metadata.
	AddTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error)

	// Search embeds the query and returns up to opts.Limit chunks ascending
	// by cosine distance. An empty store yields an empty slice, not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// DeleteChunk removes one chunk by id. Absent ids are tolerated.
	DeleteChunk(ctx context.Context, id string) error

	// DeleteSource removes every chunk whose metadata source equals the
	// given path and returns how many were removed. An unknown source
	// removes zero, not an error. Re-ingesting a document calls this first
	// so a changed file replaces its chunks instead of accumulating stale
	// ones.
	DeleteSource(ctx context.Context, source string) (int, error)

	// Clear removes all chunks. Idempotent.
	Clear(ctx context.Context) error

	// Count returns the current chunk count.
	Count(ctx context.Context) (int, error)
}
