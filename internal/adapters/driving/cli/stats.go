package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	count, err := p.store.EmbeddingStore().Count(context.Background())
	if err != nil {
		return fmt.Errorf("counting embeddings: %w", err)
	}

	cmd.Printf("Database:   %s\n", p.store.Path())
	cmd.Printf("Embeddings: %d\n", count)
	cmd.Printf("Provider:   %s (%s, %d dimensions)\n",
		p.settings.Embedding.Provider, p.embedder.ModelName(), p.embedder.Dimensions())
	return nil
}
