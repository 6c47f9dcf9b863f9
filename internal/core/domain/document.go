package domain

// Document is the ingestion input: a piece of source text plus arbitrary
// metadata. Documents are transient - they are consumed into one or more
// Chunks during ingestion and are not persisted themselves.
type Document struct {
	// Content is the raw text to ingest.
	Content string

	// Metadata contains arbitrary key-value pairs carried onto every
	// chunk produced from this document (e.g. title, source, author).
	Metadata map[string]any
}

// Chunk represents a bounded span of source text stored with its embedding.
// Chunks are immutable once stored and owned exclusively by the store; they
// are removed only by explicit deletion or a store clear.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the source document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
