package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates a bad chunk size / overlap configuration,
	// such as an overlap that is not smaller than the chunk size.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrDimensionMismatch indicates an embedding whose dimensionality does
	// not match the store's fixed dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGeneration indicates the language model failed during final answer
	// synthesis. This is terminal for the call; retrieval-stage failures are
	// absorbed and never surface as this error.
	ErrGeneration = errors.New("answer generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question breakdown, re-ranking, and answering are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion and similarity search are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
