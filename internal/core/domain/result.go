package domain

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// Limit is the maximum number of results to return.
	Limit int

	// Filter restricts results to chunks whose metadata contains every
	// key with an equal value (exact-match conjunction).
	Filter map[string]any
}

// SearchResult is a single similarity search hit. A slice of results is
// always sorted ascending by Distance.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Distance is the cosine distance to the query in [0, 2].
	// Smaller means more similar.
	Distance float64
}

// RankedContext is a search result after the second relevance-scoring pass
// against the original question. A slice of ranked contexts is always sorted
// descending by RerankScore.
type RankedContext struct {
	SearchResult

	// RerankScore is the model-judged relevance to the original question.
	// Higher is more relevant; no scale is assumed beyond that.
	RerankScore float64
}

// Answer is the result of a full question-answering pass.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Contexts are the grounding chunks that were placed in the prompt,
	// in rerank order. Empty when the store had nothing relevant.
	Contexts []RankedContext
}
