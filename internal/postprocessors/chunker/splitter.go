// Package chunker splits document text into overlapping chunks for ingestion.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Splitter splits document content into overlapping chunks. It prefers
// semantic boundaries (paragraph break, then sentence end) near the target
// size before falling back to a hard cut, and consecutive chunks share the
// configured overlap so meaning is not lost at arbitrary cut points.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// New creates a splitter with the given options. The overlap must be
// non-negative and strictly smaller than the chunk size.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidChunking, s.chunkSize)
	}
	if s.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must be non-negative", domain.ErrInvalidChunking, s.overlap)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunking, s.overlap, s.chunkSize)
	}

	return s, nil
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split cuts the document content into chunks. Each chunk carries a fresh
// unique id, its ordinal position, and a copy of the document metadata.
// Empty content produces no chunks.
func (s *Splitter) Split(doc domain.Document) []domain.Chunk {
	content := doc.Content
	if content == "" {
		return nil
	}

	estimated := (len(content) / (s.chunkSize - s.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < len(content) {
		end := start + s.chunkSize
		if end >= len(content) {
			end = len(content)
		} else {
			end = s.cutPoint(content, start, end)
		}

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  content[start:end],
			Position: position,
			Metadata: cloneMetadata(doc.Metadata),
		})
		position++

		if end == len(content) {
			break
		}

		// Step back by the overlap so consecutive chunks share context.
		next := runeStart(content, end-s.overlap)
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// cutPoint backs a hard cut off to the nearest semantic boundary within the
// trailing quarter of the chunk: paragraph break first, then sentence end,
// then the hard cut itself snapped to a rune boundary.
func (s *Splitter) cutPoint(content string, start, end int) int {
	floor := end - s.chunkSize/4
	if floor <= start {
		floor = start + 1
	}

	if i := strings.LastIndex(content[floor:end], "\n\n"); i >= 0 {
		return floor + i + 2
	}

	for i := end - 1; i >= floor; i-- {
		switch content[i] {
		case '.', '!', '?', '\n':
			return i + 1
		}
	}

	if cut := runeStart(content, end); cut > start {
		return cut
	}
	return end
}

// runeStart backs pos off to the nearest rune boundary so a cut never
// splits a multibyte character.
func runeStart(content string, pos int) int {
	for pos > 0 && pos < len(content) && !utf8.RuneStart(content[pos]) {
		pos--
	}
	return pos
}

// cloneMetadata copies document metadata so chunks never share the map.
func cloneMetadata(metadata map[string]any) map[string]any {
	clone := make(map[string]any, len(metadata))
	for k, v := range metadata {
		clone[k] = v
	}
	return clone
}
