package driven

import (
	"context"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// MetadataStore persists document records and the query log.
//
// Two interchangeable implementations share this contract: a cloud
// structured store (Supabase) and a local flat-file store. Read failures
// on the local backend degrade to empty collections so callers never
// crash on corrupt state.
type MetadataStore interface {
	// CreateDocument stores a new document record and returns its ID.
	CreateDocument(ctx context.Context, record domain.DocumentRecord) (string, error)

	// GetDocument retrieves a record by ID.
	// Returns domain.ErrNotFound when no record matches.
	GetDocument(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// GetAllDocuments returns every document record.
	GetAllDocuments(ctx context.Context) ([]domain.DocumentRecord, error)

	// UpdateDocument applies a patch to an existing record.
	// Returns false when the record does not exist.
	UpdateDocument(ctx context.Context, id string, patch domain.DocumentRecord) (bool, error)

	// DeleteDocument removes a record.
	// Returns false when the record does not exist.
	DeleteDocument(ctx context.Context, id string) (bool, error)

	// LogQuery appends a query log entry and returns its ID.
	LogQuery(ctx context.Context, entry domain.QueryLogEntry) (string, error)

	// GetQueryStats aggregates the query log: total count, per-category
	// counts, and the top 10 questions by frequency.
	GetQueryStats(ctx context.Context) (*domain.QueryStats, error)

	// Close releases resources.
	Close() error
}
