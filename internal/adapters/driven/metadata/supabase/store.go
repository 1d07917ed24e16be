// Package supabase provides a cloud implementation of the metadata store
// backed by Supabase tables ("documents" and "queries"). Row IDs and
// created_at timestamps are generated server-side.
package supabase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

const (
	documentsTable = "documents"
	queriesTable   = "queries"
)

const popularLimit = 10

// Config holds Supabase connection configuration.
type Config struct {
	// URL is the project URL (required).
	URL string

	// APIKey is the service role or anon key (required).
	APIKey string
}

// Store is a Supabase-backed metadata store.
type Store struct {
	client *supabase.Client
}

// documentRow is the documents table wire format. The id column is
// omitted on insert so the server generates it.
type documentRow struct {
	ID              string    `json:"id,omitempty"`
	Filename        string    `json:"filename"`
	Category        string    `json:"category"`
	TotalChunks     int       `json:"total_chunks"`
	FileSize        int64     `json:"file_size"`
	FileType        string    `json:"file_type"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	VectorIDs       []string  `json:"vector_ids"`
	DocumentIDs     []string  `json:"document_ids"`
}

// queryRow is the queries table wire format.
type queryRow struct {
	ID                 string    `json:"id,omitempty"`
	Question           string    `json:"question"`
	Answer             string    `json:"answer"`
	DocumentsRetrieved int       `json:"documents_retrieved"`
	Timestamp          time.Time `json:"timestamp"`
	Model              string    `json:"model"`
	CategoryFilter     string    `json:"category_filter"`
}

func toRecord(row documentRow) domain.DocumentRecord {
	return domain.DocumentRecord{
		ID:              row.ID,
		Filename:        row.Filename,
		Category:        domain.Category(row.Category),
		TotalChunks:     row.TotalChunks,
		FileSize:        row.FileSize,
		FileType:        row.FileType,
		UploadTimestamp: row.UploadTimestamp,
		VectorIDs:       row.VectorIDs,
		DocumentIDs:     row.DocumentIDs,
	}
}

func toRow(record domain.DocumentRecord) documentRow {
	return documentRow{
		Filename:        record.Filename,
		Category:        record.Category.String(),
		TotalChunks:     record.TotalChunks,
		FileSize:        record.FileSize,
		FileType:        record.FileType,
		UploadTimestamp: record.UploadTimestamp,
		VectorIDs:       record.VectorIDs,
		DocumentIDs:     record.DocumentIDs,
	}
}

// NewStore creates a Supabase metadata store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: URL is required: %w", domain.ErrMissingConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: API key is required: %w", domain.ErrMissingConfig)
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: create client: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// CreateDocument inserts a record and returns the server-generated ID.
func (s *Store) CreateDocument(_ context.Context, record domain.DocumentRecord) (string, error) {
	var inserted []documentRow
	_, err := s.client.From(documentsTable).
		Insert(toRow(record), false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return "", fmt.Errorf("supabase: create document: %w", err)
	}
	if len(inserted) == 0 {
		return "", fmt.Errorf("supabase: create document: no row returned")
	}
	return inserted[0].ID, nil
}

// GetDocument retrieves a record by ID.
func (s *Store) GetDocument(_ context.Context, id string) (*domain.DocumentRecord, error) {
	var rows []documentRow
	_, err := s.client.From(documentsTable).
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase: get document: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	record := toRecord(rows[0])
	return &record, nil
}

// GetAllDocuments returns every document record.
func (s *Store) GetAllDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	var rows []documentRow
	_, err := s.client.From(documentsTable).
		Select("*", "", false).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase: list documents: %w", err)
	}

	records := make([]domain.DocumentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, nil
}

// UpdateDocument applies a patch to an existing record.
func (s *Store) UpdateDocument(ctx context.Context, id string, patch domain.DocumentRecord) (bool, error) {
	if _, err := s.GetDocument(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	var updated []documentRow
	_, err := s.client.From(documentsTable).
		Update(toRow(patch), "representation", "").
		Eq("id", id).
		ExecuteTo(&updated)
	if err != nil {
		return false, fmt.Errorf("supabase: update document: %w", err)
	}
	return true, nil
}

// DeleteDocument removes a record.
func (s *Store) DeleteDocument(ctx context.Context, id string) (bool, error) {
	if _, err := s.GetDocument(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	var deleted []documentRow
	_, err := s.client.From(documentsTable).
		Delete("representation", "").
		Eq("id", id).
		ExecuteTo(&deleted)
	if err != nil {
		return false, fmt.Errorf("supabase: delete document: %w", err)
	}
	return true, nil
}

// LogQuery appends a query log entry.
func (s *Store) LogQuery(_ context.Context, entry domain.QueryLogEntry) (string, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	row := queryRow{
		Question:           entry.Question,
		Answer:             entry.Answer,
		DocumentsRetrieved: entry.DocumentsRetrieved,
		Timestamp:          entry.Timestamp,
		Model:              entry.Model,
		CategoryFilter:     entry.CategoryFilter,
	}

	var inserted []queryRow
	_, err := s.client.From(queriesTable).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return "", fmt.Errorf("supabase: log query: %w", err)
	}
	if len(inserted) == 0 {
		return "", fmt.Errorf("supabase: log query: no row returned")
	}
	return inserted[0].ID, nil
}

// GetQueryStats fetches the query log and aggregates it client-side.
func (s *Store) GetQueryStats(_ context.Context) (*domain.QueryStats, error) {
	var rows []queryRow
	_, err := s.client.From(queriesTable).
		Select("*", "", false).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase: query stats: %w", err)
	}
	return aggregateStats(rows), nil
}

func aggregateStats(rows []queryRow) *domain.QueryStats {
	stats := &domain.QueryStats{
		TotalQueries:       len(rows),
		CategoriesSearched: make(map[string]int),
		PopularQueries:     []domain.PopularQuery{},
	}

	counts := make(map[string]int)
	for _, row := range rows {
		category := row.CategoryFilter
		if category == "" {
			category = domain.CategoryGeneral.String()
		}
		stats.CategoriesSearched[category]++

		if row.Question != "" {
			counts[row.Question]++
		}
	}

	for question, count := range counts {
		stats.PopularQueries = append(stats.PopularQueries, domain.PopularQuery{
			Question: question,
			Count:    count,
		})
	}
	sort.Slice(stats.PopularQueries, func(i, j int) bool {
		if stats.PopularQueries[i].Count != stats.PopularQueries[j].Count {
			return stats.PopularQueries[i].Count > stats.PopularQueries[j].Count
		}
		return stats.PopularQueries[i].Question < stats.PopularQueries[j].Question
	})
	if len(stats.PopularQueries) > popularLimit {
		stats.PopularQueries = stats.PopularQueries[:popularLimit]
	}

	return stats
}
