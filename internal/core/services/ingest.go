package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nimbus-labs/kbase-cli/internal/chunker"
	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driving"
	"github.com/nimbus-labs/kbase-cli/internal/extractors"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService runs the document ingestion pipeline.
type IngestService struct {
	registry *extractors.Registry
	chunker  *chunker.Chunker
	vectors  driven.VectorStore
	metadata driven.MetadataStore
}

// NewIngestService creates the ingestion service.
func NewIngestService(
	registry *extractors.Registry,
	splitter *chunker.Chunker,
	vectors driven.VectorStore,
	metadata driven.MetadataStore,
) *IngestService {
	return &IngestService{
		registry: registry,
		chunker:  splitter,
		vectors:  vectors,
		metadata: metadata,
	}
}

// ProcessAndStore ingests a single file under a category. Failures are
// reported in the result rather than returned, so one bad file never
// aborts a batch.
func (s *IngestService) ProcessAndStore(ctx context.Context, path string, category domain.Category) domain.IngestResult {
	filename := filepath.Base(path)
	if !category.IsValid() {
		category = domain.CategoryGeneral
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !domain.SupportedExtensions[ext] {
		return failure(filename, fmt.Sprintf("unsupported file type %q", ext))
	}

	extractor, ok := s.registry.ForFile(path)
	if !ok {
		return failure(filename, fmt.Sprintf("no extractor registered for %q", ext))
	}

	info, err := os.Stat(path)
	if err != nil {
		return failure(filename, fmt.Sprintf("stat file: %v", err))
	}

	logger.Info("Extracting text from %s", filename)
	sections, err := extractor.Extract(ctx, path)
	if err != nil {
		return failure(filename, fmt.Sprintf("extract text: %v", err))
	}
	if !hasContent(sections) {
		return failure(filename, "no content extracted from document")
	}

	logger.Info("Splitting %s into chunks", filename)
	pieces := s.chunker.SplitAll(sections)
	if len(pieces) == 0 {
		return failure(filename, "no content extracted from document")
	}

	now := time.Now()
	chunks := make([]domain.Chunk, len(pieces))
	documentIDs := make([]string, len(pieces))
	for i, content := range pieces {
		id := domain.DocumentID(content, filename)
		documentIDs[i] = id
		chunks[i] = domain.Chunk{
			Content:         content,
			Filename:        filename,
			ChunkIndex:      i,
			Category:        category,
			UploadTimestamp: now,
			DocumentID:      id,
			ChunkSize:       len(content),
		}
	}

	skipped, err := s.alreadyIngested(ctx, documentIDs)
	if err != nil {
		return failure(filename, fmt.Sprintf("check existing documents: %v", err))
	}
	if skipped {
		logger.Info("Skipping %s: identical content already ingested", filename)
		return domain.IngestResult{
			Success:  true,
			Filename: filename,
			Skipped:  true,
			Message:  fmt.Sprintf("Skipped %s: identical content already ingested", filename),
		}
	}

	logger.Info("Generating embeddings and storing %d chunks", len(chunks))
	vectorIDs, err := s.vectors.AddDocuments(ctx, chunks)
	if err != nil {
		return failure(filename, fmt.Sprintf("store embeddings: %v", err))
	}

	record := domain.DocumentRecord{
		Filename:        filename,
		Category:        category,
		TotalChunks:     len(chunks),
		FileSize:        info.Size(),
		FileType:        ext,
		UploadTimestamp: now,
		VectorIDs:       vectorIDs,
		DocumentIDs:     documentIDs,
	}
	metadataID, err := s.metadata.CreateDocument(ctx, record)
	if err != nil {
		return failure(filename, fmt.Sprintf("store metadata: %v", err))
	}

	logger.Info("Successfully processed document: %s", filename)
	return domain.IngestResult{
		Success:       true,
		Filename:      filename,
		ChunksCreated: len(chunks),
		MetadataID:    metadataID,
		Message:       fmt.Sprintf("Successfully processed %s into %d chunks", filename, len(chunks)),
	}
}

// ProcessUploaded writes each upload to a temporary file, runs the
// single-file pipeline, and removes the copy whatever the outcome.
func (s *IngestService) ProcessUploaded(ctx context.Context, uploads []driving.Upload, category domain.Category) []domain.IngestResult {
	results := make([]domain.IngestResult, 0, len(uploads))

	for _, upload := range uploads {
		result := s.processUpload(ctx, upload, category)
		results = append(results, result)
	}
	return results
}

func (s *IngestService) processUpload(ctx context.Context, upload driving.Upload, category domain.Category) domain.IngestResult {
	dir, err := os.MkdirTemp("", "kbase-upload-*")
	if err != nil {
		return failure(upload.Filename, fmt.Sprintf("create upload dir: %v", err))
	}
	defer os.RemoveAll(dir)

	// The original filename is preserved so extension routing and
	// recorded metadata match what the caller uploaded.
	path := filepath.Join(dir, filepath.Base(upload.Filename))
	if err := os.WriteFile(path, upload.Content, 0o600); err != nil {
		return failure(upload.Filename, fmt.Sprintf("write upload: %v", err))
	}

	return s.ProcessAndStore(ctx, path, category)
}

// DocumentStats recomputes the aggregate document view from the
// metadata store.
func (s *IngestService) DocumentStats(ctx context.Context) (*domain.DocumentStats, error) {
	records, err := s.metadata.GetAllDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	stats := &domain.DocumentStats{
		TotalDocuments: len(records),
		Categories:     make(map[string]int),
		FileTypes:      make(map[string]int),
		Documents:      records,
	}
	for _, record := range records {
		stats.TotalChunks += record.TotalChunks
		stats.Categories[record.Category.String()]++
		stats.FileTypes[record.FileType]++
	}
	return stats, nil
}

// alreadyIngested reports whether some existing record covers the exact
// same chunk ID set, which happens when a file's content is re-uploaded
// unchanged (possibly under a different name ordering).
func (s *IngestService) alreadyIngested(ctx context.Context, documentIDs []string) (bool, error) {
	records, err := s.metadata.GetAllDocuments(ctx)
	if err != nil {
		return false, err
	}

	want := make(map[string]bool, len(documentIDs))
	for _, id := range documentIDs {
		want[id] = true
	}

	for _, record := range records {
		if len(record.DocumentIDs) != len(want) {
			continue
		}
		match := true
		for _, id := range record.DocumentIDs {
			if !want[id] {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func hasContent(sections []string) bool {
	for _, section := range sections {
		if strings.TrimSpace(section) != "" {
			return true
		}
	}
	return false
}

func failure(filename, detail string) domain.IngestResult {
	msg := fmt.Sprintf("Error processing %s: %s", filename, detail)
	logger.Error("%s", msg)
	return domain.IngestResult{
		Success:  false,
		Filename: filename,
		Error:    msg,
		Message:  msg,
	}
}
