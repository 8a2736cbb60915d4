package driving

import (
	"context"

	"github.com/grantlight/enrich/internal/core/domain"
)

// RecordInput pairs a record with its discovered resources.
type RecordInput struct {
	// Record is the parent record being enriched.
	Record domain.Record

	// Resources are the links discovered on the record's page.
	Resources []domain.Resource
}

// Enricher turns a record's discovered resources into canonical
// documents: classified and scored linked pages, extracted PDFs and
// partnership material.
type Enricher interface {
	// Enrich processes one record. Individual resource failures are
	// counted in the report, never fatal; the error return is reserved
	// for context cancellation.
	Enrich(ctx context.Context, input RecordInput) ([]domain.Document, *domain.Report, error)

	// EnrichAll processes records through a bounded worker pool and
	// returns the accumulated documents and a merged report.
	EnrichAll(ctx context.Context, inputs []RecordInput) ([]domain.Document, *domain.Report, error)
}
