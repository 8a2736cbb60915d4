package domain

import "time"

// EmbeddingRecord is one persisted chunk embedding. Its ID is derived
// from (DocID, ChunkIndex), so the durable store can be written with
// upsert semantics and re-runs never duplicate records.
type EmbeddingRecord struct {
	// ID is the deterministic embedding identifier.
	ID string

	// DocID links to the source Document.
	DocID string

	// ParentID links to the record the document enriches.
	ParentID string

	// ChunkIndex is the ordinal position of the chunk in the document.
	ChunkIndex int

	// Vector is the L2-normalised embedding, fixed dimension.
	Vector []float32

	// Text is the chunk text.
	Text string

	// SourceURL is the citable origin of the document.
	SourceURL string

	// DocType is the source document's type.
	DocType DocType

	// Scope is the source document's scope.
	Scope Scope

	// CreatedAt is when the record was first persisted. Used as the
	// deterministic tiebreak when query scores are equal.
	CreatedAt time.Time
}

// Hit is a single query result from the vector index.
type Hit struct {
	// DocID is the matched document.
	DocID string

	// ParentID is the matched document's record.
	ParentID string

	// Score is the cosine similarity (0-1, higher is better).
	Score float64

	// ChunkIndex is which chunk of the document matched.
	ChunkIndex int

	// SourceURL is the citable origin.
	SourceURL string

	// Text is the chunk text.
	Text string

	// DocType is the source document's type.
	DocType DocType

	// Scope is the source document's scope.
	Scope Scope
}

// QueryFilters restricts a vector query to matching rows before ranking.
// Zero-value filters match everything.
type QueryFilters struct {
	// ParentIDs limits hits to the given records when non-empty.
	ParentIDs []string

	// Scope limits hits to one scope when non-empty.
	Scope Scope
}

// Match returns true if the record passes the filters.
func (f QueryFilters) Match(rec *EmbeddingRecord) bool {
	if f.Scope != "" && rec.Scope != f.Scope {
		return false
	}
	if len(f.ParentIDs) > 0 {
		found := false
		for _, id := range f.ParentIDs {
			if rec.ParentID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
