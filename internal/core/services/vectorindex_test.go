package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantlight/enrich/internal/chunker"
	"github.com/grantlight/enrich/internal/core/domain"
)

// hashEmbedder is a deterministic embedder: a byte histogram of the
// text, so identical texts embed identically.
type hashEmbedder struct {
	dims  int
	fail  bool
	calls int
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail {
		return nil, errors.New("embedding service unavailable")
	}
	vec := make([]float32, e.dims)
	for _, b := range []byte(text) {
		vec[int(b)%e.dims]++
	}
	return vec, nil
}

func (e *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *hashEmbedder) Dimensions() int   { return e.dims }
func (e *hashEmbedder) ModelName() string { return "hash-test" }

// memStore is an in-memory EmbeddingStore for index tests.
type memStore struct {
	records map[string]domain.EmbeddingRecord
	saves   int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]domain.EmbeddingRecord)}
}

func (s *memStore) SaveBatch(_ context.Context, records []domain.EmbeddingRecord) error {
	s.saves++
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *memStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.records[id]
	return ok, nil
}

func (s *memStore) LoadAll(_ context.Context) ([]domain.EmbeddingRecord, error) {
	out := make([]domain.EmbeddingRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Count(_ context.Context) (int, error) {
	return len(s.records), nil
}

func (s *memStore) DeleteForParent(_ context.Context, parentID string) (int, error) {
	n := 0
	for id, r := range s.records {
		if r.ParentID == parentID {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

func newTestIndex(t *testing.T, embedder *hashEmbedder, store *memStore) *VectorIndex {
	t.Helper()
	idx, err := NewVectorIndex(context.Background(), embedder, store, chunker.New())
	require.NoError(t, err)
	return idx
}

func testDoc(id, parentID, text string) domain.Document {
	return domain.Document{
		ID:       id,
		ParentID: parentID,
		DocType:  domain.DocTypeLinkedPage,
		Scope:    domain.ScopeRecord,
		Text:     text,
	}
}

func TestIndexDocuments_IndexesAndPersists(t *testing.T) {
	embedder := &hashEmbedder{dims: 16}
	store := newMemStore()
	idx := newTestIndex(t, embedder, store)

	stats, err := idx.IndexDocuments(context.Background(), []domain.Document{
		testDoc("doc-1", "rec-1", "Eligibility criteria for the funding call."),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 1, idx.Size())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndexDocuments_Idempotent(t *testing.T) {
	embedder := &hashEmbedder{dims: 16}
	store := newMemStore()
	idx := newTestIndex(t, embedder, store)

	docs := []domain.Document{
		testDoc("doc-1", "rec-1", "Eligibility criteria for the funding call."),
		testDoc("doc-2", "rec-1", "How to apply before the deadline."),
	}

	first, err := idx.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Indexed)

	callsAfterFirst := embedder.calls

	second, err := idx.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Indexed)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 2, idx.Size())

	// Skipped chunks must not reach the embedder.
	assert.Equal(t, callsAfterFirst, embedder.calls)
}

func TestIndexDocuments_SkipsExistingFromDurableStore(t *testing.T) {
	embedder := &hashEmbedder{dims: 16}
	store := newMemStore()

	idx := newTestIndex(t, embedder, store)
	_, err := idx.IndexDocuments(context.Background(), []domain.Document{
		testDoc("doc-1", "rec-1", "Eligibility criteria for the funding call."),
	})
	require.NoError(t, err)

	// A fresh index over the same store sees the persisted embedding.
	fresh := newTestIndex(t, embedder, store)
	stats, err := fresh.IndexDocuments(context.Background(), []domain.Document{
		testDoc("doc-1", "rec-1", "Eligibility criteria for the funding call."),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)
	assert.Equal(t, 1, stats.Skipped)
}

func TestIndexDocuments_EmbedFailureSkipsChunk(t *testing.T) {
	embedder := &hashEmbedder{dims: 16, fail: true}
	store := newMemStore()
	idx := newTestIndex(t, embedder, store)

	stats, err := idx.IndexDocuments(context.Background(), []domain.Document{
		testDoc("doc-1", "rec-1", "Eligibility criteria for the funding call."),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, idx.Size())
}

func TestQuery_ExactMatchScoresNearOne(t *testing.T) {
	embedder := &hashEmbedder{dims: 16}
	store := newMemStore()
	idx := newTestIndex(t, embedder, store)

	text := "Eligibility criteria for the digital health funding call."
	_, err := idx.IndexDocuments(context.Background(), []domain.Document{
		testDoc("doc-1", "rec-1", text),
		testDoc("doc-2", "rec-1", "Completely different partnership summary material."),
	})
	require.NoError(t, err)

	hits, err := idx.Query(context.Background(), text, 2, domain.QueryFilters{})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "doc-1", hits[0].DocID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-4)
	assert.Less(t, hits[1].Score, hits[0].Score)
}

func TestQuery_Filters(t *testing.T) {
	embedder := &hashEmbedder{dims: 16}
	store := newMemStore()
	idx := newTestIndex(t, embedder, store)

	collectionDoc := domain.Document{
		ID:       "doc-c",
		ParentID: "rec-2",
		DocType:  domain.DocTypeSection,
		Scope:    domain.ScopeCollection,
		Text:     "Programme overview shared across calls.",
	}
	_, err := idx.IndexDocuments(context.Background(), []domain.Document{
		testDoc("doc-1", "rec-1", "Eligibility criteria for the funding call."),
		testDoc("doc-2", "rec-2", "How to apply before the deadline."),
		collectionDoc,
	})
	require.NoError(t, err)

	hits, err := idx.Query(context.Background(), "funding", 10, domain.QueryFilters{ParentIDs: []string{"rec-1"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "rec-1", hits[0].ParentID)

	hits, err = idx.Query(context.Background(), "programme", 10, domain.QueryFilters{Scope: domain.ScopeCollection})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-c", hits[0].DocID)
}

func TestQuery_TiebreakByCreatedAt(t *testing.T) {
	store := newMemStore()

	// Seed two identical vectors with distinct creation times, newer
	// stored first.
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	vec := normalize([]float32{1, 2, 3, 4})
	store.records["b"] = domain.EmbeddingRecord{
		ID: "b", DocID: "doc-newer", ParentID: "rec-1",
		Vector: vec, Text: "same", CreatedAt: base.Add(time.Hour),
	}
	store.records["a"] = domain.EmbeddingRecord{
		ID: "a", DocID: "doc-older", ParentID: "rec-1",
		Vector: vec, Text: "same", CreatedAt: base,
	}

	idx, err := NewVectorIndex(context.Background(), &hashEmbedder{dims: 4}, store, chunker.New())
	require.NoError(t, err)

	hits, err := idx.Query(context.Background(), "same", 2, domain.QueryFilters{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc-older", hits[0].DocID)
	assert.Equal(t, "doc-newer", hits[1].DocID)
}

func TestQuery_InvalidTopK(t *testing.T) {
	idx := newTestIndex(t, &hashEmbedder{dims: 8}, newMemStore())

	_, err := idx.Query(context.Background(), "anything", 0, domain.QueryFilters{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
