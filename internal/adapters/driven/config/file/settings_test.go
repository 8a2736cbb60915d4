package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantlight/enrich/internal/core/domain"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.MaxLinksPerRecord = 3
	settings.ChunkSize = 800
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.ProviderOllama,
		Model:    "all-minilm",
	}
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
	assert.FileExists(t, store.Path())
}

func TestLoad_PartialConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	partial := "max_links_per_record = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, settings.MaxLinksPerRecord)
	assert.Equal(t, domain.DefaultSettings().ChunkSize, settings.ChunkSize)
	assert.Equal(t, time.Second, settings.PerDomainInterval)
}

func TestLoad_MalformedConfig(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0600))

	_, err = store.Load()
	assert.Error(t, err)
}
