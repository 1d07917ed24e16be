// Package qdrant provides a Qdrant-backed vector store over the official
// gRPC client. The collection is created lazily with cosine distance and
// the embedder's dimensionality.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// APIKey is an optional API key for authentication.
	APIKey string

	// Collection is the collection name.
	Collection string
}

// Store is a Qdrant-backed vector store.
type Store struct {
	client     *qdrant.Client
	collection string
	embedder   driven.EmbeddingService

	ensureOnce sync.Once
	ensureErr  error
}

// NewStore creates a Qdrant vector store. The collection is not created
// until the first write or query.
func NewStore(cfg Config, embedder driven.EmbeddingService) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant: URL is required: %w", domain.ErrMissingConfig)
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: collection name is required: %w", domain.ErrMissingConfig)
	}
	if embedder == nil {
		return nil, fmt.Errorf("qdrant: embedder is required")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}
	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("qdrant: parse URL: %w", err)
	}

	host := u.Hostname()
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("qdrant: invalid port: %w", err)
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client: %w", err)
	}

	return &Store{
		client:     client,
		collection: cfg.Collection,
		embedder:   embedder,
	}, nil
}

// ensureCollection creates the collection on first use.
func (s *Store) ensureCollection(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.client.CollectionExists(ctx, s.collection)
		if err != nil {
			s.ensureErr = fmt.Errorf("qdrant: check collection: %w", err)
			return
		}
		if exists {
			return
		}

		logger.Info("Creating Qdrant collection %q (dims=%d)", s.collection, s.embedder.Dimensions())
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.embedder.Dimensions()),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			s.ensureErr = fmt.Errorf("qdrant: create collection: %w", err)
		}
	})
	return s.ensureErr
}

// AddDocuments embeds and upserts chunks, returning one point ID per chunk.
func (s *Store) AddDocuments(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("qdrant: embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("qdrant: embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	ids := make([]string, len(chunks))
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		id := uuid.New().String()
		ids[i] = id
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":          chunk.Content,
				"filename":         chunk.Filename,
				"chunk_index":      int64(chunk.ChunkIndex),
				"category":         chunk.Category.String(),
				"upload_timestamp": chunk.UploadTimestamp.Format(time.RFC3339),
				"document_id":      chunk.DocumentID,
				"chunk_size":       int64(chunk.ChunkSize),
			}),
		}
	}

	wait := true
	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: upsert points: %w", err)
	}

	logger.Debug("qdrant: upserted %d points into %q", len(points), s.collection)
	return ids, nil
}

// SimilaritySearch embeds the query and returns up to k chunks ranked by
// descending cosine similarity.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		k = 4
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("qdrant: embed query: %w", err)
	}

	limit := uint64(k)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(points))
	for _, point := range points {
		chunks = append(chunks, chunkFromPayload(point.Payload))
	}
	return chunks, nil
}

// DeleteDocuments removes points by ID.
func (s *Store) DeleteDocuments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDUUID(id)
	}

	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete points: %w", err)
	}
	return nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func chunkFromPayload(payload map[string]*qdrant.Value) domain.Chunk {
	var chunk domain.Chunk
	if payload == nil {
		return chunk
	}

	chunk.Content = payload["content"].GetStringValue()
	chunk.Filename = payload["filename"].GetStringValue()
	chunk.ChunkIndex = int(payload["chunk_index"].GetIntegerValue())
	chunk.Category = domain.Category(payload["category"].GetStringValue())
	chunk.DocumentID = payload["document_id"].GetStringValue()
	chunk.ChunkSize = int(payload["chunk_size"].GetIntegerValue())

	if ts := payload["upload_timestamp"].GetStringValue(); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			chunk.UploadTimestamp = parsed
		}
	}
	return chunk
}
