package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grantlight/enrich/internal/chunker"
	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driving"
	"github.com/grantlight/enrich/internal/core/services"
	htmlx "github.com/grantlight/enrich/internal/extractors/html"
	pdfx "github.com/grantlight/enrich/internal/extractors/pdf"
)

var runReset bool

var runCmd = &cobra.Command{
	Use:   "run [manifest.json]",
	Short: "Enrich and index the records in a manifest",
	Long: `Reads a JSON manifest of records and their discovered resources,
enriches each record (linked pages, PDFs, partnership material) and
indexes the resulting documents for semantic search.

Enrichment is idempotent: document and embedding IDs are deterministic,
so re-running an unchanged manifest creates no duplicates.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runReset, "reset", false, "delete existing embeddings for the manifest's records first")
	rootCmd.AddCommand(runCmd)
}

// manifestRecord is one entry of the input manifest.
type manifestRecord struct {
	ParentID     string `json:"parent_id"`
	CanonicalURL string `json:"canonical_url"`
	Title        string `json:"title"`
	HTML         string `json:"html,omitempty"`
	Resources    []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Kind  string `json:"kind"`
	} `json:"resources"`
}

func runRun(cmd *cobra.Command, args []string) error {
	inputs, err := readManifest(args[0])
	if err != nil {
		return err
	}

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signalContext(context.Background())
	defer stop()

	embStore := p.store.EmbeddingStore()
	if runReset {
		for _, input := range inputs {
			deleted, err := embStore.DeleteForParent(ctx, input.Record.ParentID)
			if err != nil {
				return fmt.Errorf("resetting record %s: %w", input.Record.ParentID, err)
			}
			if deleted > 0 {
				cmd.Printf("Deleted %d embeddings for %s\n", deleted, input.Record.ParentID)
			}
		}
	}

	enricher := services.NewEnrichmentService(
		p.newFetcher(),
		htmlx.New(htmlx.WithMinTextLen(p.settings.MinPageTextLen)),
		pdfx.New(pdfx.WithMinTextLen(p.settings.MinPDFTextLen)),
		services.NewLinkClassifier(),
		services.NewRelevanceScorer(services.WithThreshold(p.settings.RelevanceThreshold)),
		services.NewPartnershipDetector(),
		p.settings,
	)

	docs, report, err := enricher.EnrichAll(ctx, inputs)
	if err != nil {
		return fmt.Errorf("enriching records: %w", err)
	}
	cmd.Printf("Enriched %d records: %s\n", len(inputs), report.Summary())
	for _, line := range report.Log {
		cmd.Printf("  %s\n", line)
	}

	index, err := services.NewVectorIndex(ctx, p.embedder, embStore,
		chunker.New(
			chunker.WithChunkSize(p.settings.ChunkSize),
			chunker.WithOverlap(p.settings.ChunkOverlap),
		))
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}

	stats, err := index.IndexDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("indexing documents: %w", err)
	}
	cmd.Printf("Indexed %d chunks (%d already present, %d failed)\n",
		stats.Indexed, stats.Skipped, stats.Failed)
	return nil
}

// signalContext derives a context that is cancelled on SIGINT or SIGTERM,
// so an interrupted run stops cleanly mid-record instead of being killed.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// readManifest parses the manifest file into record inputs.
func readManifest(path string) ([]driving.RecordInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var records []manifestRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	inputs := make([]driving.RecordInput, 0, len(records))
	for _, rec := range records {
		if rec.ParentID == "" {
			return nil, fmt.Errorf("%w: manifest record missing parent_id", domain.ErrInvalidInput)
		}
		input := driving.RecordInput{
			Record: domain.Record{
				ParentID:     rec.ParentID,
				CanonicalURL: rec.CanonicalURL,
				Title:        rec.Title,
				HTML:         rec.HTML,
			},
		}
		for _, res := range rec.Resources {
			input.Resources = append(input.Resources, domain.Resource{
				URL:   res.URL,
				Title: res.Title,
				Kind:  domain.ResourceKind(res.Kind),
			})
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
