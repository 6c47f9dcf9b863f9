// Package domain defines the core business entities for Quill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Transient ingestion input (text plus metadata)
//   - Chunk: A stored span of text with its embedding
//   - SearchResult / RankedContext: Retrieval outputs
//   - Session / ChatMessage: Bounded conversational history
//   - Settings: Typed application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
