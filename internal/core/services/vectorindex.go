package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
	"github.com/grantlight/enrich/internal/core/ports/driving"
	"github.com/grantlight/enrich/internal/logger"
)

// VectorIndex holds every chunk embedding in memory and answers
// similarity queries by exact brute-force cosine scan. The durable
// store is the source of truth; the in-memory matrix is rebuilt from it
// at construction and appended to on every IndexDocuments call.
type VectorIndex struct {
	embedder driven.EmbeddingService
	store    driven.EmbeddingStore
	chunker  driven.Chunker

	mu      sync.RWMutex
	records []domain.EmbeddingRecord
	known   map[string]struct{}
}

// Ensure VectorIndex implements the driving port.
var _ driving.SemanticIndex = (*VectorIndex)(nil)

// NewVectorIndex builds the index, loading all persisted embeddings.
func NewVectorIndex(ctx context.Context, embedder driven.EmbeddingService, store driven.EmbeddingStore, chunker driven.Chunker) (*VectorIndex, error) {
	records, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading embeddings: %w", err)
	}

	known := make(map[string]struct{}, len(records))
	for i := range records {
		known[records[i].ID] = struct{}{}
	}

	logger.Debug("Vector index loaded %d embeddings", len(records))
	return &VectorIndex{
		embedder: embedder,
		store:    store,
		chunker:  chunker,
		records:  records,
		known:    known,
	}, nil
}

// IndexDocuments chunks, embeds and persists documents. Chunks whose
// deterministic embedding ID already exists are skipped entirely, so
// re-indexing unchanged documents costs no embedding calls. A failed
// embedding request skips that chunk and is counted; it never aborts
// the batch.
func (v *VectorIndex) IndexDocuments(ctx context.Context, docs []domain.Document) (*domain.IndexStats, error) {
	stats := &domain.IndexStats{}
	var batch []domain.EmbeddingRecord

	for _, doc := range docs {
		chunks := v.chunker.Chunk(doc.Text)
		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			id := domain.NewEmbeddingID(doc.ID, i)
			if v.has(id) {
				stats.Skipped++
				continue
			}
			exists, err := v.store.Exists(ctx, id)
			if err != nil {
				return stats, fmt.Errorf("checking embedding %s: %w", id, err)
			}
			if exists {
				stats.Skipped++
				continue
			}

			vec, err := v.embedder.Embed(ctx, chunk)
			if err != nil {
				logger.Warn("Embedding chunk %d of %s: %v", i, doc.ID, err)
				stats.Failed++
				continue
			}

			batch = append(batch, domain.EmbeddingRecord{
				ID:         id,
				DocID:      doc.ID,
				ParentID:   doc.ParentID,
				ChunkIndex: i,
				Vector:     normalize(vec),
				Text:       chunk,
				SourceURL:  doc.SourceURL,
				DocType:    doc.DocType,
				Scope:      doc.Scope,
				CreatedAt:  time.Now().UTC(),
			})
			stats.Indexed++
		}
	}

	if len(batch) > 0 {
		if err := v.store.SaveBatch(ctx, batch); err != nil {
			return stats, fmt.Errorf("saving embeddings: %w", err)
		}
		v.mu.Lock()
		for i := range batch {
			v.records = append(v.records, batch[i])
			v.known[batch[i].ID] = struct{}{}
		}
		v.mu.Unlock()
	}

	logger.Info("Indexed %d chunks (%d skipped, %d failed)", stats.Indexed, stats.Skipped, stats.Failed)
	return stats, nil
}

// Query embeds the query text and returns the topK most similar chunks.
// Vectors are unit length, so dot product is cosine similarity. Equal
// scores break ties by earliest CreatedAt, then insertion order.
func (v *VectorIndex) Query(ctx context.Context, text string, topK int, filters domain.QueryFilters) ([]domain.Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}

	queryVec, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	queryVec = normalize(queryVec)

	type scored struct {
		rec   *domain.EmbeddingRecord
		score float64
		pos   int
	}

	v.mu.RLock()
	candidates := make([]scored, 0, len(v.records))
	for i := range v.records {
		rec := &v.records[i]
		if !filters.Match(rec) {
			continue
		}
		candidates = append(candidates, scored{
			rec:   rec,
			score: dot(queryVec, rec.Vector),
			pos:   i,
		})
	}
	v.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].rec.CreatedAt.Equal(candidates[j].rec.CreatedAt) {
			return candidates[i].rec.CreatedAt.Before(candidates[j].rec.CreatedAt)
		}
		return candidates[i].pos < candidates[j].pos
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	hits := make([]domain.Hit, 0, topK)
	for _, c := range candidates[:topK] {
		hits = append(hits, domain.Hit{
			DocID:      c.rec.DocID,
			ParentID:   c.rec.ParentID,
			Score:      c.score,
			ChunkIndex: c.rec.ChunkIndex,
			SourceURL:  c.rec.SourceURL,
			Text:       c.rec.Text,
			DocType:    c.rec.DocType,
			Scope:      c.rec.Scope,
		})
	}
	return hits, nil
}

// Size returns the number of chunks currently in memory.
func (v *VectorIndex) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records)
}

func (v *VectorIndex) has(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.known[id]
	return ok
}

// normalize scales a vector to unit length. Zero vectors pass through
// unchanged.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, x := range vec {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the dot product in float64 for stable ranking.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
