package domain

import "time"

// Settings holds all tunable pipeline configuration.
type Settings struct {
	// MaxLinksPerRecord caps how many accepted webpage links are
	// followed per record, highest classification confidence first.
	MaxLinksPerRecord int `toml:"max_links_per_record"`

	// ChunkSize is the chunk window in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// MinPageTextLen is the extraction floor for webpages.
	MinPageTextLen int `toml:"min_page_text_len"`

	// MinPDFTextLen is the extraction floor for PDFs.
	MinPDFTextLen int `toml:"min_pdf_text_len"`

	// RelevanceThreshold is the score above which a page is relevant.
	RelevanceThreshold float64 `toml:"relevance_threshold"`

	// MaxPDFBytes caps PDF downloads.
	MaxPDFBytes int64 `toml:"max_pdf_bytes"`

	// PerDomainInterval is the minimum spacing between requests to the
	// same domain, shared across workers.
	PerDomainInterval time.Duration `toml:"per_domain_interval"`

	// PDFTimeout bounds a single PDF fetch.
	PDFTimeout time.Duration `toml:"pdf_timeout"`

	// PageTimeout bounds a single webpage fetch.
	PageTimeout time.Duration `toml:"page_timeout"`

	// CacheTTL is how long fetched resources stay valid in the cache.
	CacheTTL time.Duration `toml:"cache_ttl"`

	// Workers bounds concurrent record enrichment.
	Workers int `toml:"workers"`

	// Embedding holds embedding provider configuration.
	Embedding EmbeddingSettings `toml:"embedding"`
}

// EmbeddingProvider identifies an embedding service provider.
type EmbeddingProvider string

// Available embedding providers.
const (
	ProviderOpenAI EmbeddingProvider = "openai"
	ProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	return p == ProviderOpenAI || p == ProviderOllama
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for OpenAI).
	APIKey string `toml:"api_key"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// DefaultSettings returns settings with the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxLinksPerRecord:  8,
		ChunkSize:          1200,
		ChunkOverlap:       200,
		MinPageTextLen:     200,
		MinPDFTextLen:      100,
		RelevanceThreshold: 0.3,
		MaxPDFBytes:        50 * 1024 * 1024,
		PerDomainInterval:  time.Second,
		PDFTimeout:         30 * time.Second,
		PageTimeout:        15 * time.Second,
		CacheTTL:           30 * 24 * time.Hour,
		Workers:            4,
		// Embedding is left unconfigured; semantic indexing is disabled
		// until a provider is set.
		Embedding: EmbeddingSettings{},
	}
}
