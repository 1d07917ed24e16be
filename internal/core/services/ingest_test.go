package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/kbase-cli/internal/chunker"
	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driving"
	"github.com/nimbus-labs/kbase-cli/internal/extractors"
	"github.com/nimbus-labs/kbase-cli/internal/extractors/plaintext"
)

func newIngestService(vectors *mockVectorStore, metadata *mockMetadataStore) *IngestService {
	registry := extractors.NewRegistry(plaintext.New())
	return NewIngestService(registry, chunker.New(), vectors, metadata)
}

func writeTextFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessAndStore_Success(t *testing.T) {
	vectors := &mockVectorStore{}
	metadata := &mockMetadataStore{}
	svc := newIngestService(vectors, metadata)

	path := writeTextFile(t, "handbook.txt", "Employees accrue two vacation days per month.")
	result := svc.ProcessAndStore(context.Background(), path, domain.CategoryHR)

	require.True(t, result.Success, "unexpected error: %s", result.Error)
	assert.Equal(t, "handbook.txt", result.Filename)
	assert.Equal(t, 1, result.ChunksCreated)
	assert.Equal(t, "doc-1", result.MetadataID)
	assert.False(t, result.Skipped)
	assert.Contains(t, result.Message, "Successfully processed handbook.txt")

	require.Len(t, vectors.added, 1)
	chunk := vectors.added[0][0]
	assert.Equal(t, domain.CategoryHR, chunk.Category)
	assert.Equal(t, 0, chunk.ChunkIndex)
	assert.Equal(t, len(chunk.Content), chunk.ChunkSize)
	assert.Equal(t, domain.DocumentID(chunk.Content, "handbook.txt"), chunk.DocumentID)

	require.Len(t, metadata.records, 1)
	record := metadata.records[0]
	assert.Equal(t, 1, record.TotalChunks)
	assert.Equal(t, ".txt", record.FileType)
	assert.Equal(t, []string{"vec-1"}, record.VectorIDs)
	assert.Equal(t, []string{chunk.DocumentID}, record.DocumentIDs)
	assert.Positive(t, record.FileSize)
}

func TestProcessAndStore_UnsupportedExtension(t *testing.T) {
	svc := newIngestService(&mockVectorStore{}, &mockMetadataStore{})

	path := writeTextFile(t, "notes.md", "# markdown")
	result := svc.ProcessAndStore(context.Background(), path, domain.CategoryGeneral)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported file type")
}

func TestProcessAndStore_NoExtractorRegistered(t *testing.T) {
	vectors := &mockVectorStore{}
	metadata := &mockMetadataStore{}
	// Supported extension, but nothing registered to handle it.
	svc := NewIngestService(extractors.NewRegistry(), chunker.New(), vectors, metadata)

	path := writeTextFile(t, "handbook.txt", "Some content.")
	result := svc.ProcessAndStore(context.Background(), path, domain.CategoryGeneral)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no extractor registered")
	assert.Empty(t, vectors.added)
	assert.Empty(t, metadata.records)
}

func TestProcessAndStore_EmptyFile(t *testing.T) {
	svc := newIngestService(&mockVectorStore{}, &mockMetadataStore{})

	path := writeTextFile(t, "empty.txt", "   \n  ")
	result := svc.ProcessAndStore(context.Background(), path, domain.CategoryGeneral)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no content extracted")
}

func TestProcessAndStore_MissingFile(t *testing.T) {
	svc := newIngestService(&mockVectorStore{}, &mockMetadataStore{})

	result := svc.ProcessAndStore(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), domain.CategoryGeneral)
	assert.False(t, result.Success)
}

func TestProcessAndStore_DuplicateContentSkipped(t *testing.T) {
	vectors := &mockVectorStore{}
	metadata := &mockMetadataStore{}
	svc := newIngestService(vectors, metadata)

	path := writeTextFile(t, "policy.txt", "Remote work is allowed two days per week.")
	first := svc.ProcessAndStore(context.Background(), path, domain.CategoryPolicies)
	require.True(t, first.Success)

	second := svc.ProcessAndStore(context.Background(), path, domain.CategoryPolicies)
	require.True(t, second.Success)
	assert.True(t, second.Skipped)
	assert.Zero(t, second.ChunksCreated)
	assert.Contains(t, second.Message, "already ingested")

	// Nothing new reached the stores.
	assert.Len(t, vectors.added, 1)
	assert.Len(t, metadata.records, 1)
}

func TestProcessAndStore_VectorStoreError(t *testing.T) {
	vectors := &mockVectorStore{addErr: assert.AnError}
	metadata := &mockMetadataStore{}
	svc := newIngestService(vectors, metadata)

	path := writeTextFile(t, "doc.txt", "some content")
	result := svc.ProcessAndStore(context.Background(), path, domain.CategoryGeneral)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "store embeddings")
	assert.Empty(t, metadata.records)
}

func TestProcessAndStore_InvalidCategoryDefaultsToGeneral(t *testing.T) {
	vectors := &mockVectorStore{}
	svc := newIngestService(vectors, &mockMetadataStore{})

	path := writeTextFile(t, "doc.txt", "some content")
	result := svc.ProcessAndStore(context.Background(), path, domain.Category("marketing"))

	require.True(t, result.Success)
	assert.Equal(t, domain.CategoryGeneral, vectors.added[0][0].Category)
}

func TestProcessUploaded(t *testing.T) {
	vectors := &mockVectorStore{}
	metadata := &mockMetadataStore{}
	svc := newIngestService(vectors, metadata)

	uploads := []driving.Upload{
		{Filename: "faq.txt", Content: []byte("Questions and answers about onboarding.")},
		{Filename: "image.png", Content: []byte{0x89, 0x50}},
	}
	results := svc.ProcessUploaded(context.Background(), uploads, domain.CategoryGeneral)

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "faq.txt", results[0].Filename)
	assert.False(t, results[1].Success)
	assert.Equal(t, "image.png", results[1].Filename)

	// One failed upload does not block the others.
	assert.Len(t, metadata.records, 1)
}

func TestDocumentStats(t *testing.T) {
	metadata := &mockMetadataStore{records: []domain.DocumentRecord{
		{ID: "doc-1", Category: domain.CategoryHR, FileType: ".pdf", TotalChunks: 4},
		{ID: "doc-2", Category: domain.CategoryHR, FileType: ".txt", TotalChunks: 2},
		{ID: "doc-3", Category: domain.CategorySOPs, FileType: ".pdf", TotalChunks: 3},
	}}
	svc := newIngestService(&mockVectorStore{}, metadata)

	stats, err := svc.DocumentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, 9, stats.TotalChunks)
	assert.Equal(t, map[string]int{"hr": 2, "sops": 1}, stats.Categories)
	assert.Equal(t, map[string]int{".pdf": 2, ".txt": 1}, stats.FileTypes)
	assert.Len(t, stats.Documents, 3)
}

func TestDocumentStats_StoreError(t *testing.T) {
	metadata := &mockMetadataStore{listErr: assert.AnError}
	svc := newIngestService(&mockVectorStore{}, metadata)

	_, err := svc.DocumentStats(context.Background())
	assert.Error(t, err)
}
