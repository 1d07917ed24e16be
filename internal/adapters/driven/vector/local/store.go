// Package local provides an embedded vector store persisted as a JSON
// index on disk. Search is brute-force cosine similarity over the whole
// index, which is fine at knowledge-base scale (thousands of chunks).
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// entry is one persisted vector with its source chunk.
type entry struct {
	ID     string       `json:"id"`
	Vector []float32    `json:"vector"`
	Chunk  domain.Chunk `json:"chunk"`
}

// Store is a file-backed vector index.
type Store struct {
	mu       sync.RWMutex
	path     string
	embedder driven.EmbeddingService
	entries  []entry
}

// NewStore opens (or creates) the index file for a collection under dataDir.
func NewStore(dataDir, collection string, embedder driven.EmbeddingService) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("local vector store: embedder is required")
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("local vector store: resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".kbase", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("local vector store: create data dir: %w", err)
	}

	s := &Store{
		path:     filepath.Join(dataDir, fmt.Sprintf("vectors_%s.json", collection)),
		embedder: embedder,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("local vector store: read index: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		// A corrupt index is treated as empty rather than blocking startup.
		logger.Error("vector index %s is corrupt, starting empty: %v", s.path, err)
		s.entries = nil
	}
	return nil
}

// save is called with s.mu held.
func (s *Store) save() error {
	items := s.entries
	if items == nil {
		items = []entry{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("local vector store: encode index: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("local vector store: write index: %w", err)
	}
	return nil
}

// AddDocuments embeds and stores chunks, returning one vector ID per chunk.
func (s *Store) AddDocuments(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("local vector store: embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("local vector store: embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		id := uuid.New().String()
		ids[i] = id
		s.entries = append(s.entries, entry{ID: id, Vector: vectors[i], Chunk: chunk})
	}
	if err := s.save(); err != nil {
		return nil, err
	}

	logger.Debug("local vector store: added %d vectors (total %d)", len(chunks), len(s.entries))
	return ids, nil
}

// SimilaritySearch embeds the query and returns up to k chunks ranked by
// descending cosine similarity.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		k = 4
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("local vector store: embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, 0, len(s.entries))
	for i := range s.entries {
		scores = append(scores, scored{index: i, score: cosine(queryVector, s.entries[i].Vector)})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	results := make([]domain.Chunk, 0, k)
	for _, sc := range scores[:k] {
		results = append(results, s.entries[sc.index].Chunk)
	}
	return results, nil
}

// DeleteDocuments removes vectors by ID. Unknown IDs are ignored.
func (s *Store) DeleteDocuments(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return s.save()
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
