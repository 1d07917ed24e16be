package cli

import (
	"context"
	"errors"
	"time"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driving"
	"github.com/nimbus-labs/kbase-cli/internal/core/services"
)

// fakeIngestor returns canned results and records the paths it was
// asked to process.
type fakeIngestor struct {
	lastCtx    context.Context
	paths      []string
	categories []domain.Category
	results    map[string]domain.IngestResult
	stats      *domain.DocumentStats
	statsErr   error
}

func (f *fakeIngestor) ProcessAndStore(ctx context.Context, path string, category domain.Category) domain.IngestResult {
	f.lastCtx = ctx
	f.paths = append(f.paths, path)
	f.categories = append(f.categories, category)
	if result, ok := f.results[path]; ok {
		return result
	}
	return domain.IngestResult{
		Success:       true,
		Filename:      path,
		ChunksCreated: 2,
		MetadataID:    "doc-1",
		Message:       "Successfully processed " + path + " into 2 chunks",
	}
}

func (f *fakeIngestor) ProcessUploaded(ctx context.Context, uploads []driving.Upload, category domain.Category) []domain.IngestResult {
	results := make([]domain.IngestResult, 0, len(uploads))
	for _, upload := range uploads {
		results = append(results, f.ProcessAndStore(ctx, upload.Filename, category))
	}
	return results
}

func (f *fakeIngestor) DocumentStats(_ context.Context) (*domain.DocumentStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &domain.DocumentStats{
		TotalDocuments: 2,
		TotalChunks:    7,
		Categories:     map[string]int{"hr": 1, "general": 1},
		FileTypes:      map[string]int{".pdf": 1, ".txt": 1},
	}, nil
}

// fakeQueryEngine returns a canned response and records the question
// and options.
type fakeQueryEngine struct {
	lastCtx       context.Context
	lastQuestion  string
	lastOpts      domain.QueryOptions
	lastFollowups []string
	response      domain.QueryResponse
	stats         *domain.QueryStats
	statsErr      error
}

func (f *fakeQueryEngine) Query(ctx context.Context, _ *domain.Session, question string, opts domain.QueryOptions) domain.QueryResponse {
	f.lastCtx = ctx
	f.lastQuestion = question
	f.lastOpts = opts
	response := f.response
	response.Query = question
	return response
}

func (f *fakeQueryEngine) QueryWithFollowups(ctx context.Context, session *domain.Session, question string, followups []string, opts domain.QueryOptions) domain.QueryResponse {
	f.lastFollowups = followups
	response := f.Query(ctx, session, question, opts)
	for _, followup := range followups {
		response.FollowUps = append(response.FollowUps, domain.FollowUp{
			Question: followup,
			Answer:   "Follow-up answer to " + followup,
		})
	}
	return response
}

func (f *fakeQueryEngine) Suggestions(category string) []string {
	return services.Suggestions(category)
}

func (f *fakeQueryEngine) QueryStats(_ context.Context) (*domain.QueryStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &domain.QueryStats{
		TotalQueries:       3,
		CategoriesSearched: map[string]int{"general": 2, "hr": 1},
		PopularQueries: []domain.PopularQuery{
			{Question: "What is the vacation policy?", Count: 2},
			{Question: "How do I reset my password?", Count: 1},
		},
	}, nil
}

func successResponse() domain.QueryResponse {
	return domain.QueryResponse{
		Answer:             "Employees accrue 20 days of paid vacation per year.",
		Model:              "gpt-3.5-turbo",
		Timestamp:          time.Now().UTC(),
		DocumentsRetrieved: 1,
		Success:            true,
		Sources: []domain.Citation{
			{
				SourceNumber:   1,
				Filename:       "handbook.pdf",
				ChunkIndex:     0,
				Category:       domain.CategoryHR,
				ContentPreview: "Vacation policy:\nemployees accrue 20 days per year.",
			},
		},
	}
}

// setupTestServices injects fakes into the package-level services so
// commands run without real adapters. The returned cleanup restores
// the previous state.
func setupTestServices() (ingest *fakeIngestor, query *fakeQueryEngine, cleanup func()) {
	oldIngestor := ingestor
	oldQueryEngine := queryEngine

	ingest = &fakeIngestor{}
	query = &fakeQueryEngine{response: successResponse()}
	ingestor = ingest
	queryEngine = query

	// Cobra caches each command's context across Execute calls and only
	// inherits the root context when the cached one is nil, so clear any
	// context left behind by a previous test's run.
	rootCmd.SetContext(nil)
	for _, c := range rootCmd.Commands() {
		c.SetContext(nil)
	}

	return ingest, query, func() {
		ingestor = oldIngestor
		queryEngine = oldQueryEngine
	}
}

var errStatsUnavailable = errors.New("metadata store offline")
