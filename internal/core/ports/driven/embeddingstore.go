package driven

import (
	"context"

	"github.com/grantlight/enrich/internal/core/domain"
)

// EmbeddingStore persists embedding records durably. It is the single
// source of truth for the vector index: the in-memory matrix is rebuilt
// from it at startup and appended to thereafter.
//
// Writes are upserts keyed by record ID, so retrying a batch after a
// failure is always safe.
type EmbeddingStore interface {
	// SaveBatch upserts records in a single transaction.
	SaveBatch(ctx context.Context, records []domain.EmbeddingRecord) error

	// Exists reports whether a record with the given ID is persisted.
	Exists(ctx context.Context, id string) (bool, error)

	// LoadAll returns every persisted record ordered by creation time.
	LoadAll(ctx context.Context) ([]domain.EmbeddingRecord, error)

	// Count returns the number of persisted records.
	Count(ctx context.Context) (int, error)

	// DeleteForParent removes all records for a record's documents,
	// for re-enriching from scratch. Returns the number deleted.
	DeleteForParent(ctx context.Context, parentID string) (int, error)
}
