// Package embedding selects and constructs the configured embedding
// service adapter.
package embedding

import (
	"fmt"

	"github.com/grantlight/enrich/internal/adapters/driven/embedding/ollama"
	"github.com/grantlight/enrich/internal/adapters/driven/embedding/openai"
	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
)

// NewFromSettings builds the embedding service named by the settings.
func NewFromSettings(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider not configured", domain.ErrEmbeddingUnavailable)
	}

	switch settings.Provider {
	case domain.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}
