// Package cli provides the command-line interface for the enrichment
// pipeline.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grantlight/enrich/internal/adapters/driven/config/file"
	"github.com/grantlight/enrich/internal/adapters/driven/embedding"
	"github.com/grantlight/enrich/internal/adapters/driven/fetch"
	"github.com/grantlight/enrich/internal/adapters/driven/storage/sqlite"
	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
	"github.com/grantlight/enrich/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose   bool
	dataDir   string
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Content enrichment and semantic indexing for funding records",
	Long: `enrich turns the auxiliary content around funding-call records -
linked guidance pages, PDFs and partner material - into a searchable
semantic index.

Records and their discovered resources are read from a JSON manifest,
classified, fetched, extracted and scored; accepted documents are
chunked, embedded and stored durably for similarity queries.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.enrich/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.enrich)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// pipeline bundles the wired adapters a command needs.
type pipeline struct {
	settings domain.Settings
	store    *sqlite.Store
	embedder driven.EmbeddingService
}

// Close releases the pipeline's resources.
func (p *pipeline) Close() error {
	return p.store.Close()
}

// openPipeline loads settings and opens the store and embedding service.
func openPipeline() (*pipeline, error) {
	settingsStore, err := file.NewSettingsStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	embedder, err := embedding.NewFromSettings(settings.Embedding)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &pipeline{
		settings: settings,
		store:    store,
		embedder: embedder,
	}, nil
}

// newFetcher builds the rate-limited, cached fetcher for a pipeline.
func (p *pipeline) newFetcher() driven.Fetcher {
	ttl := p.settings.CacheTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return fetch.NewFetcher(p.settings, fetch.WithCache(p.store.FetchCache(ttl)))
}
