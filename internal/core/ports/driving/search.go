package driving

import (
	"context"

	"github.com/grantlight/enrich/internal/core/domain"
)

// SemanticIndex indexes documents and serves similarity queries.
type SemanticIndex interface {
	// IndexDocuments chunks, embeds and persists documents.
	// Idempotent: chunks whose embedding already exists durably are
	// skipped entirely.
	IndexDocuments(ctx context.Context, docs []domain.Document) (*domain.IndexStats, error)

	// Query returns the topK most similar chunks to the query text,
	// optionally filtered by parent records or scope.
	Query(ctx context.Context, text string, topK int, filters domain.QueryFilters) ([]domain.Hit, error)

	// Size returns the number of chunks currently in memory.
	Size() int
}
