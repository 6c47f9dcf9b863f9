package mcp

import (
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions grounded in the document store.
	// Optional: without an LLM provider only search is exposed.
	Answer driving.AnswerService

	// Store provides direct similarity search over the index.
	Store driving.StoreService

	// Index backs the status resource. Optional.
	Index driven.VectorIndex
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Store == nil {
		return ErrMissingStoreService
	}
	// Answer and Index are optional
	return nil
}
