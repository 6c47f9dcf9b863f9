package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find document chunks"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID  string  `json:"chunk_id"`
	Title    string  `json:"title,omitempty"`
	Source   string  `json:"source,omitempty"`
	Distance float64 `json:"distance"`
	Content  string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	SessionID string `json:"session_id,omitempty" jsonschema:"optional session id for conversation history"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string             `json:"answer"`
	Sources []AskContextOutput `json:"sources,omitempty"`
}

// AskContextOutput describes one context chunk an answer was grounded in.
type AskContextOutput struct {
	ChunkID string  `json:"chunk_id"`
	Title   string  `json:"title,omitempty"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.impl, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed documents by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.impl, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the indexed documents",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit}
	results, err := s.ports.Store.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		title, _ := results[i].Chunk.Metadata["title"].(string)
		source, _ := results[i].Chunk.Metadata["source"].(string)
		output.Results[i] = SearchResultOutput{
			ChunkID:  results[i].Chunk.ID,
			Title:    title,
			Source:   source,
			Distance: results[i].Distance,
			Content:  results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Answer == nil {
		return nil, AskOutput{}, errors.New("ask tool unavailable: no LLM provider configured")
	}

	answer, err := s.ports.Answer.ProcessQuery(ctx, input.Question, input.SessionID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]AskContextOutput, len(answer.Contexts)),
	}
	for i, rc := range answer.Contexts {
		title, _ := rc.Chunk.Metadata["title"].(string)
		source, _ := rc.Chunk.Metadata["source"].(string)
		output.Sources[i] = AskContextOutput{
			ChunkID: rc.Chunk.ID,
			Title:   title,
			Source:  source,
			Score:   rc.RerankScore,
		}
	}

	return nil, output, nil
}
