package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantlight/enrich/internal/core/domain"
)

func TestNewFromSettings_Unconfigured(t *testing.T) {
	_, err := NewFromSettings(domain.EmbeddingSettings{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	// OpenAI without an API key is not configured either.
	_, err = NewFromSettings(domain.EmbeddingSettings{Provider: domain.ProviderOpenAI})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewFromSettings_OpenAI(t *testing.T) {
	svc, err := NewFromSettings(domain.EmbeddingSettings{
		Provider: domain.ProviderOpenAI,
		APIKey:   "sk-test",
		Model:    "text-embedding-3-large",
	})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-large", svc.ModelName())
	assert.Equal(t, 3072, svc.Dimensions())
}

func TestNewFromSettings_Ollama(t *testing.T) {
	svc, err := NewFromSettings(domain.EmbeddingSettings{
		Provider: domain.ProviderOllama,
	})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
}
