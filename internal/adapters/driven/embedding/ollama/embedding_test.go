package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantlight/enrich/internal/core/domain"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	vec, err := svc.Embed(context.Background(), "chunk text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(len(req.Prompt))}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []float32{1}, embeddings[0])
	assert.Equal(t, []float32{2}, embeddings[1])
	assert.Equal(t, []float32{3}, embeddings[2])
}

func TestEmbed_ServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbed_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "text")
	assert.ErrorContains(t, err, "model not found")
}
