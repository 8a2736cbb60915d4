package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grantlight/enrich/internal/chunker"
	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/services"
)

var (
	queryTop     int
	queryParents []string
	queryScope   string
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the semantic index",
	Long: `Embeds the query text and returns the most similar indexed chunks,
ranked by cosine similarity. Results can be restricted to specific
records or to a scope (record or collection).`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTop, "top", "n", 5, "maximum number of results")
	queryCmd.Flags().StringSliceVar(&queryParents, "parent", nil, "restrict to these parent record IDs")
	queryCmd.Flags().StringVar(&queryScope, "scope", "", "restrict to one scope (record or collection)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryScope != "" {
		scope := domain.Scope(queryScope)
		if scope != domain.ScopeRecord && scope != domain.ScopeCollection {
			return fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, queryScope)
		}
	}

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := context.Background()

	index, err := services.NewVectorIndex(ctx, p.embedder, p.store.EmbeddingStore(),
		chunker.New(
			chunker.WithChunkSize(p.settings.ChunkSize),
			chunker.WithOverlap(p.settings.ChunkOverlap),
		))
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}

	hits, err := index.Query(ctx, args[0], queryTop, domain.QueryFilters{
		ParentIDs: queryParents,
		Scope:     domain.Scope(queryScope),
	})
	if err != nil {
		return fmt.Errorf("querying index: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, hit := range hits {
		cmd.Printf("  [%d] %.3f  %s (chunk %d, %s)\n", i+1, hit.Score, hit.DocID, hit.ChunkIndex, hit.DocType)
		if hit.SourceURL != "" {
			cmd.Printf("      Source: %s\n", hit.SourceURL)
		}
		cmd.Printf("      %s\n\n", snippet(hit.Text, 160))
	}
	return nil
}

// snippet truncates text to at most n runes on a single line.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
