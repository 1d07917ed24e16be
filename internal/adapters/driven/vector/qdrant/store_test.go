package qdrant

import (
	"context"
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

type stubEmbedder struct{}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }
func (s *stubEmbedder) ModelName() string { return "stub" }
func (s *stubEmbedder) Close() error { return nil }

func TestNewStore_RequiresURL(t *testing.T) {
	_, err := NewStore(Config{Collection: "kb"}, &stubEmbedder{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestNewStore_RequiresCollection(t *testing.T) {
	_, err := NewStore(Config{URL: "https://example.qdrant.io"}, &stubEmbedder{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestNewStore_RequiresEmbedder(t *testing.T) {
	_, err := NewStore(Config{URL: "https://example.qdrant.io", Collection: "kb"}, nil)

	assert.Error(t, err)
}

func TestNewStore_DefaultsSchemeAndPort(t *testing.T) {
	// The gRPC client dials lazily, so construction succeeds offline.
	store, err := NewStore(Config{URL: "example.qdrant.io", Collection: "kb"}, &stubEmbedder{})

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}

func TestNewStore_RejectsInvalidPort(t *testing.T) {
	_, err := NewStore(Config{URL: "http://example:notaport", Collection: "kb"}, &stubEmbedder{})

	assert.Error(t, err)
}

func TestChunkFromPayload_MapsAllFields(t *testing.T) {
	uploaded := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := qdrant.NewValueMap(map[string]any{
		"content":          "Vacation policy text.",
		"filename":         "handbook.pdf",
		"chunk_index":      int64(2),
		"category":         "hr",
		"upload_timestamp": uploaded.Format(time.RFC3339),
		"document_id":      "handbook_abc12345",
		"chunk_size":       int64(21),
	})

	chunk := chunkFromPayload(payload)

	assert.Equal(t, "Vacation policy text.", chunk.Content)
	assert.Equal(t, "handbook.pdf", chunk.Filename)
	assert.Equal(t, 2, chunk.ChunkIndex)
	assert.Equal(t, domain.CategoryHR, chunk.Category)
	assert.Equal(t, uploaded, chunk.UploadTimestamp)
	assert.Equal(t, "handbook_abc12345", chunk.DocumentID)
	assert.Equal(t, 21, chunk.ChunkSize)
}

func TestChunkFromPayload_NilPayload(t *testing.T) {
	chunk := chunkFromPayload(nil)

	assert.Zero(t, chunk)
}

func TestChunkFromPayload_MissingKeys(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{"content": "only content"})

	chunk := chunkFromPayload(payload)

	assert.Equal(t, "only content", chunk.Content)
	assert.Empty(t, chunk.Filename)
	assert.True(t, chunk.UploadTimestamp.IsZero())
}
