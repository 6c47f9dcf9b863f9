package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
)

func TestSettingsStore_LoadDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsStore_SaveAndLoad(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.Model = "nomic-embed-text"
	settings.LLM.Provider = domain.AIProviderOpenAI
	settings.LLM.Model = "gpt-4o-mini"
	settings.LLM.APIKey = "sk-test"
	settings.Chunking.Size = 500
	settings.Chunking.Overlap = 50
	settings.Storage.Backend = domain.VectorBackendSQLite

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsStore_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	partial := "[chunking]\nsize = 300\noverlap = 30\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0600))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 300, loaded.Chunking.Size)
	assert.Equal(t, 30, loaded.Chunking.Overlap)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Retrieval, loaded.Retrieval)
	assert.Equal(t, defaults.History, loaded.History)
	assert.Equal(t, defaults.Storage, loaded.Storage)
}

func TestSettingsStore_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	t.Run("save rejects overlap >= chunk size", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Chunking.Size = 100
		settings.Chunking.Overlap = 100

		require.Error(t, store.Save(settings))
	})

	t.Run("load rejects bad provider", func(t *testing.T) {
		bad := "[llm]\nprovider = \"skynet\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(bad), 0600))

		_, err := store.Load()
		require.Error(t, err)
	})

	t.Run("load rejects malformed toml", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0600))

		_, err := store.Load()
		require.Error(t, err)
	})
}

func TestSettingsStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestSettingsStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.LLM.Provider = domain.AIProviderAnthropic
	settings.LLM.APIKey = "secret"
	require.NoError(t, store.Save(settings))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config file with API keys must not be world-readable")
}
