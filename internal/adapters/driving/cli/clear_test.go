package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

func populateTestIndex(t *testing.T, n int) {
	t.Helper()
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:        string(rune('a' + i)),
			Content:   "chunk",
			Embedding: []float32{1, float32(i)},
		}
	}
	require.NoError(t, vectorIndex.Add(context.Background(), chunks))
}

func TestClearCmd_Use(t *testing.T) {
	assert.Equal(t, "clear", clearCmd.Use)

	yes := clearCmd.Flags().Lookup("yes")
	require.NotNil(t, yes)
	assert.Equal(t, "y", yes.Shorthand)
}

func TestClearCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"clear"})

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Index is already empty.")
}

func TestClearCmd_WithYesFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { clearYes = false }()

	populateTestIndex(t, 3)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"clear", "--yes"})

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted 3 chunks.")

	count, err := vectorIndex.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClearCmd_Confirmation(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()

		populateTestIndex(t, 2)

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetIn(strings.NewReader("y\n"))
		rootCmd.SetArgs([]string{"clear"})

		err := rootCmd.Execute()
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Delete all 2 chunks?")
		assert.Contains(t, buf.String(), "Deleted 2 chunks.")
	})

	t.Run("declined", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()

		populateTestIndex(t, 2)

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetIn(strings.NewReader("n\n"))
		rootCmd.SetArgs([]string{"clear"})

		err := rootCmd.Execute()
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Aborted.")

		count, err := vectorIndex.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
