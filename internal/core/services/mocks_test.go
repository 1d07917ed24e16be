package services

import (
	"context"
	"fmt"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// mockVectorStore records added chunks and serves canned search results.
type mockVectorStore struct {
	added      [][]domain.Chunk
	addErr     error
	nextID     int
	searchResp []domain.Chunk
	searchErr  error
	lastQuery  string
	lastK      int
	deleted    []string
}

func (m *mockVectorStore) AddDocuments(_ context.Context, chunks []domain.Chunk) ([]string, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	m.added = append(m.added, chunks)
	ids := make([]string, len(chunks))
	for i := range chunks {
		m.nextID++
		ids[i] = fmt.Sprintf("vec-%d", m.nextID)
	}
	return ids, nil
}

func (m *mockVectorStore) SimilaritySearch(_ context.Context, query string, k int) ([]domain.Chunk, error) {
	m.lastQuery = query
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResp, nil
}

func (m *mockVectorStore) DeleteDocuments(_ context.Context, ids []string) error {
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockMetadataStore is an in-memory MetadataStore.
type mockMetadataStore struct {
	records    []domain.DocumentRecord
	createErr  error
	listErr    error
	logged     []domain.QueryLogEntry
	logErr     error
	statsResp  *domain.QueryStats
	statsErr   error
	nextRecord int
}

func (m *mockMetadataStore) CreateDocument(_ context.Context, record domain.DocumentRecord) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextRecord++
	record.ID = fmt.Sprintf("doc-%d", m.nextRecord)
	m.records = append(m.records, record)
	return record.ID, nil
}

func (m *mockMetadataStore) GetDocument(_ context.Context, id string) (*domain.DocumentRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockMetadataStore) GetAllDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockMetadataStore) UpdateDocument(_ context.Context, id string, patch domain.DocumentRecord) (bool, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			patch.ID = id
			m.records[i] = patch
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMetadataStore) DeleteDocument(_ context.Context, id string) (bool, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMetadataStore) LogQuery(_ context.Context, entry domain.QueryLogEntry) (string, error) {
	if m.logErr != nil {
		return "", m.logErr
	}
	m.logged = append(m.logged, entry)
	return "query-1", nil
}

func (m *mockMetadataStore) GetQueryStats(_ context.Context) (*domain.QueryStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.statsResp != nil {
		return m.statsResp, nil
	}
	return &domain.QueryStats{CategoriesSearched: map[string]int{}}, nil
}

func (m *mockMetadataStore) Close() error { return nil }

// mockLLM returns a fixed answer and captures the prompt.
type mockLLM struct {
	answer     string
	err        error
	model      string
	lastPrompt string
	calls      int
}

func (m *mockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string {
	if m.model == "" {
		return "gpt-3.5-turbo"
	}
	return m.model
}

func (m *mockLLM) Close() error { return nil }
