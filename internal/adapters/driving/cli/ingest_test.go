package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIngestFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [paths...]", ingestCmd.Use)
	assert.NotNil(t, ingestCmd.Flags().Lookup("watch"))
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stub := &stubStoreService{}
	storeService = stub

	dir := t.TempDir()
	path := writeIngestFixture(t, dir, "doc.md", "some document content")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", path})

	err := rootCmd.Execute()
	require.NoError(t, err)

	require.Len(t, stub.added, 1)
	assert.Equal(t, "some document content", stub.added[0].Content)
	assert.Equal(t, path, stub.added[0].Metadata["source"])
	assert.Equal(t, "doc", stub.added[0].Metadata["title"])
	assert.Contains(t, buf.String(), "Done: 1 files, 1 chunks.")
}

func TestIngestCmd_ReingestReplacesPreviousChunks(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stub := &stubStoreService{}
	storeService = stub

	dir := t.TempDir()
	path := writeIngestFixture(t, dir, "notes.txt", "Old fact: X is 1.")

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest", path})
	require.NoError(t, rootCmd.Execute())

	writeIngestFixture(t, dir, "notes.txt", "New fact: X is 2.")
	rootCmd.SetArgs([]string{"ingest", path})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, []string{path, path}, stub.deletedSources,
		"each ingest must drop the source's previous chunks first")
	require.Len(t, stub.added, 1, "a changed file must replace its chunks, not duplicate them")
	assert.Equal(t, "New fact: X is 2.", stub.added[0].Content)
}

func TestIngestCmd_NoMatchingFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	writeIngestFixture(t, dir, "image.png", "not text")

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest", dir})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .txt or .md files matched")
}

func TestResolveIngestPaths(t *testing.T) {
	dir := t.TempDir()
	txt := writeIngestFixture(t, dir, "a.txt", "a")
	md := writeIngestFixture(t, dir, "b.md", "b")
	writeIngestFixture(t, dir, "c.json", "{}")

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	nested := writeIngestFixture(t, sub, "d.MD", "d")

	t.Run("directory walked recursively", func(t *testing.T) {
		files, err := resolveIngestPaths([]string{dir})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{txt, md, nested}, files)
	})

	t.Run("glob pattern", func(t *testing.T) {
		files, err := resolveIngestPaths([]string{filepath.Join(dir, "*.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{txt}, files)
	})

	t.Run("duplicates collapsed", func(t *testing.T) {
		files, err := resolveIngestPaths([]string{txt, txt, dir})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{txt, md, nested}, files)
	})

	t.Run("missing path is an error", func(t *testing.T) {
		_, err := resolveIngestPaths([]string{filepath.Join(dir, "missing.txt")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such path")
	})

	t.Run("unsupported extensions filtered", func(t *testing.T) {
		files, err := resolveIngestPaths([]string{filepath.Join(dir, "c.json")})
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
