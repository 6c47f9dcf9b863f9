// Package sqlite provides a persistent vector index backed by SQLite.
//
// Embeddings are stored as little-endian float32 blobs and metadata as JSON.
// Search is a brute-force cosine-distance scan, which is adequate for the
// corpus sizes a local store handles.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id        TEXT PRIMARY KEY,
	content   TEXT NOT NULL,
	position  INTEGER NOT NULL DEFAULT 0,
	embedding BLOB NOT NULL,
	metadata  TEXT NOT NULL DEFAULT '{}'
);
`

// Index is a SQLite-backed implementation of driven.VectorIndex.
// The dimensionality is fixed by the first chunk added.
type Index struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	dims int
}

// NewIndex opens (or creates) the index database in dataDir.
// If dataDir is empty, defaults to ~/.quill/data.
func NewIndex(dataDir string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quill", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// WAL mode for better concurrency between the write path and searches.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	idx := &Index{db: db, path: dbPath}

	if err := idx.loadDimensions(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// loadDimensions derives the stored dimensionality from any existing row.
func (idx *Index) loadDimensions() error {
	var blob []byte
	err := idx.db.QueryRow(`SELECT embedding FROM chunks LIMIT 1`).Scan(&blob)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return fmt.Errorf("reading existing dimensions: %w", err)
	}
	idx.dims = len(blob) / 4
	return nil
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Add inserts chunks in a single transaction. A chunk with an existing id
// replaces the stored one.
func (idx *Index) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			position = excluded.position,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

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

		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for chunk %s: %w", chunk.ID, err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Content, chunk.Position,
			float32SliceToBytes(chunk.Embedding), string(metadataJSON)); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes one chunk by id. Absent ids are a no-op.
func (idx *Index) Delete(ctx context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.ExecContext(ctx, `DELETE FROM chunks WHERE id = ?`, chunkID); err != nil {
		return fmt.Errorf("delete chunk %s: %w", chunkID, err)
	}
	return nil
}

// DeleteAll removes every chunk. Idempotent.
func (idx *Index) DeleteAll(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	idx.dims = 0
	return nil
}

// DeleteWhere removes every chunk whose metadata satisfies filter and
// returns how many were removed. Matching happens in Go on the unmarshalled
// metadata, the same way Search filters, so the JSON float64 caveat applies
// here too. A nil or empty filter removes nothing.
func (idx *Index) DeleteWhere(ctx context.Context, filter map[string]any) (int, error) {
	if len(filter) == 0 {
		return 0, nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	rows, err := idx.db.QueryContext(ctx, `SELECT id, metadata FROM chunks`)
	if err != nil {
		return 0, fmt.Errorf("query chunks: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id, metadataJSON string
		if err := rows.Scan(&id, &metadataJSON); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan chunk: %w", err)
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			rows.Close()
			return 0, fmt.Errorf("unmarshal metadata for chunk %s: %w", id, err)
		}
		if matchesFilter(metadata, filter) {
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate chunks: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("delete chunk %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	var remaining int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&remaining); err == nil && remaining == 0 {
		idx.dims = 0
	}
	return len(ids), nil
}

// Search scans all stored chunks and returns up to k ascending by cosine
// distance, restricted by the metadata filter when non-nil.
//
// Note: metadata round-trips through JSON, so numeric filter values compare
// as float64.
func (idx *Index) Search(ctx context.Context, query []float32, k int, filter map[string]any) ([]domain.SearchResult, error) {
	idx.mu.Lock()
	dims := idx.dims
	idx.mu.Unlock()

	if dims == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), dims)
	}
	if k <= 0 {
		return []domain.SearchResult{}, nil
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT id, content, position, embedding, metadata FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		var metadataJSON string

		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Position, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(blob)
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for chunk %s: %w", chunk.ID, err)
		}

		if !matchesFilter(chunk.Metadata, filter) {
			continue
		}

		results = append(results, domain.SearchResult{
			Chunk:    chunk,
			Distance: cosineDistance(query, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
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
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// Count returns the number of chunks currently stored.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
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

// cosineDistance computes 1 - cosine_similarity; lower is closer.
func cosineDistance(a, b []float32) float64 {
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

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a little-endian byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
