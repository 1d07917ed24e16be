package driven

import (
	"context"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// VectorStore stores embedded chunks and serves nearest-neighbour queries.
//
// Implementations compute embeddings via an EmbeddingService before
// insertion and before each query; there is no embedding cache, so
// repeated ingestion of identical content re-embeds it. Embedding and
// network errors propagate to the caller; the store performs no retries.
type VectorStore interface {
	// AddDocuments embeds and stores chunks, returning one vector ID
	// per chunk in input order.
	AddDocuments(ctx context.Context, chunks []domain.Chunk) ([]string, error)

	// SimilaritySearch embeds the query text and returns up to k chunks
	// ranked by descending embedding similarity.
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.Chunk, error)

	// DeleteDocuments removes vectors by ID.
	DeleteDocuments(ctx context.Context, ids []string) error

	// Close releases resources.
	Close() error
}
