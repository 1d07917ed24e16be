package driving

import (
	"context"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// Ingestor runs the document ingestion pipeline: extraction, chunking,
// metadata tagging, embedding storage, and provenance recording.
type Ingestor interface {
	// ProcessAndStore ingests a single file under a category. Failures
	// are reported in the result, never raised, so one file cannot
	// abort a batch.
	ProcessAndStore(ctx context.Context, path string, category domain.Category) domain.IngestResult

	// ProcessUploaded ingests a set of uploaded files independently.
	// The batch result is the list of per-file outcomes; temporary
	// on-disk copies are removed on success and failure alike.
	ProcessUploaded(ctx context.Context, uploads []Upload, category domain.Category) []domain.IngestResult

	// DocumentStats recomputes the aggregate document view on demand.
	DocumentStats(ctx context.Context) (*domain.DocumentStats, error)
}

// Upload is an uploaded file handed over by the caller.
type Upload struct {
	// Filename is the name the file was uploaded under.
	Filename string

	// Content is the raw file bytes.
	Content []byte
}
