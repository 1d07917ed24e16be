// Package file provides a flat-file implementation of the metadata store.
//
// Document records and query log entries live in two JSON array files
// that are read, mutated, and rewritten whole on every write. An
// advisory file lock serialises writers across processes; without it
// the read-modify-write cycle races when two processes mutate at once.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

const (
	documentsFile = "documents.json"
	queriesFile   = "queries.json"
	lockFile      = "metadata.lock"
)

// popularLimit caps the popular-query ranking.
const popularLimit = 10

// Store is a flat-file metadata store rooted at a data directory.
type Store struct {
	mu       sync.Mutex
	dataDir  string
	fileLock *flock.Flock
}

// NewStore creates a flat-file store under dataDir, initialising empty
// collection files when absent.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kbase", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		dataDir:  dataDir,
		fileLock: flock.New(filepath.Join(dataDir, lockFile)),
	}

	for _, name := range []string{documentsFile, queriesFile} {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0600); err != nil {
				return nil, fmt.Errorf("initialising %s: %w", name, err)
			}
		}
	}

	return s, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// loadJSON reads a whole collection file. Read or parse failures degrade
// to an empty collection so callers never crash on corrupt state.
func loadJSON[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("reading %s: %v", path, err)
		return nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Error("parsing %s: %v", path, err)
		return nil
	}
	return records
}

// saveJSON rewrites a whole collection file.
func saveJSON[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		logger.Error("writing %s: %v", path, err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// withLock runs fn holding both the in-process mutex and the advisory
// file lock, guarding the whole read-modify-write cycle.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.fileLock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring metadata lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquiring metadata lock: %w", ctx.Err())
	}
	defer s.fileLock.Unlock() //nolint:errcheck

	return fn()
}

func (s *Store) documentsPath() string {
	return filepath.Join(s.dataDir, documentsFile)
}

func (s *Store) queriesPath() string {
	return filepath.Join(s.dataDir, queriesFile)
}

// CreateDocument appends a document record and returns its generated ID.
func (s *Store) CreateDocument(ctx context.Context, record domain.DocumentRecord) (string, error) {
	var id string
	err := s.withLock(ctx, func() error {
		records := loadJSON[domain.DocumentRecord](s.documentsPath())

		id = fmt.Sprintf("doc_%d_%d", len(records)+1, time.Now().Unix())
		record.ID = id
		records = append(records, record)

		return saveJSON(s.documentsPath(), records)
	})
	if err != nil {
		return "", err
	}

	logger.Debug("Created document record %s (%s)", id, record.Filename)
	return id, nil
}

// GetDocument retrieves a record by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	var found *domain.DocumentRecord
	err := s.withLock(ctx, func() error {
		for _, record := range loadJSON[domain.DocumentRecord](s.documentsPath()) {
			if record.ID == id {
				r := record
				found = &r
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// GetAllDocuments returns every document record.
func (s *Store) GetAllDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	var records []domain.DocumentRecord
	err := s.withLock(ctx, func() error {
		records = loadJSON[domain.DocumentRecord](s.documentsPath())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateDocument replaces an existing record's fields, keeping its ID.
// Returns false when the record does not exist.
func (s *Store) UpdateDocument(ctx context.Context, id string, patch domain.DocumentRecord) (bool, error) {
	updated := false
	err := s.withLock(ctx, func() error {
		records := loadJSON[domain.DocumentRecord](s.documentsPath())
		for i := range records {
			if records[i].ID != id {
				continue
			}
			patch.ID = id
			records[i] = patch
			updated = true
			return saveJSON(s.documentsPath(), records)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

// DeleteDocument removes a record. Returns false when it does not exist.
func (s *Store) DeleteDocument(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.withLock(ctx, func() error {
		records := loadJSON[domain.DocumentRecord](s.documentsPath())
		kept := records[:0]
		for _, record := range records {
			if record.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, record)
		}
		if !deleted {
			return nil
		}
		return saveJSON(s.documentsPath(), kept)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// LogQuery appends a query log entry and returns its generated ID.
func (s *Store) LogQuery(ctx context.Context, entry domain.QueryLogEntry) (string, error) {
	var id string
	err := s.withLock(ctx, func() error {
		entries := loadJSON[domain.QueryLogEntry](s.queriesPath())

		id = fmt.Sprintf("query_%d_%d", len(entries)+1, time.Now().Unix())
		entry.ID = id
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now()
		}
		entries = append(entries, entry)

		return saveJSON(s.queriesPath(), entries)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetQueryStats aggregates the query log: total count, per-category
// counts, and the top questions by frequency.
func (s *Store) GetQueryStats(ctx context.Context) (*domain.QueryStats, error) {
	var entries []domain.QueryLogEntry
	err := s.withLock(ctx, func() error {
		entries = loadJSON[domain.QueryLogEntry](s.queriesPath())
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := &domain.QueryStats{
		TotalQueries:       len(entries),
		CategoriesSearched: make(map[string]int),
		PopularQueries:     []domain.PopularQuery{},
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		category := entry.CategoryFilter
		if category == "" {
			category = domain.CategoryGeneral.String()
		}
		stats.CategoriesSearched[category]++

		if entry.Question != "" {
			counts[entry.Question]++
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

	return stats, nil
}
