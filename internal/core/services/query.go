package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driven"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driving"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryEngine = (*QueryService)(nil)

// DefaultTopK is the number of chunks retrieved when the caller does not
// say otherwise.
const DefaultTopK = 5

// noResultsAnswer is returned when retrieval (after filtering) comes up empty.
const noResultsAnswer = "I couldn't find any relevant information to answer your question. " +
	"Please try rephrasing or upload more documents."

// qaPromptTemplate grounds the model in retrieved context and tells it to
// decline rather than invent an answer.
const qaPromptTemplate = `Use the following pieces of context to answer the human's question.
If you don't know the answer based on the provided context, just say that you don't know, don't try to make up an answer.

Context:
%s

Question: %s

Helpful Answer:`

// QueryService answers questions with retrieval-augmented generation.
type QueryService struct {
	llm      driven.LLMService
	vectors  driven.VectorStore
	metadata driven.MetadataStore
}

// NewQueryService creates the query engine.
func NewQueryService(llm driven.LLMService, vectors driven.VectorStore, metadata driven.MetadataStore) *QueryService {
	return &QueryService{
		llm:      llm,
		vectors:  vectors,
		metadata: metadata,
	}
}

// Query runs the full pipeline: retrieve, filter, assemble context,
// generate, cite, log. Errors surface as non-success responses.
func (s *QueryService) Query(ctx context.Context, session *domain.Session, question string, opts domain.QueryOptions) domain.QueryResponse {
	question = strings.TrimSpace(question)
	response := domain.QueryResponse{
		Query:     question,
		Timestamp: time.Now(),
		Model:     s.llm.ModelName(),
	}
	if question == "" {
		response.Answer = "Please enter a question."
		response.Error = "question is empty"
		return response
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	filter := s.resolveFilter(session, opts)
	response.CategoryFilter = filter

	logger.Info("Processing query: %s", question)
	chunks, err := s.vectors.SimilaritySearch(ctx, question, topK)
	if err != nil {
		logger.Error("Error retrieving documents: %v", err)
		response.Answer = fmt.Sprintf("Sorry, I encountered an error while processing your question: %v", err)
		response.Error = err.Error()
		return response
	}

	chunks = filterByCategory(chunks, filter)
	logger.Info("Retrieved %d relevant documents", len(chunks))

	if len(chunks) == 0 {
		response.Answer = noResultsAnswer
		s.logQuery(ctx, question, response.Answer, 0, filter)
		return response
	}

	prompt := fmt.Sprintf(qaPromptTemplate, formatContext(chunks), question)
	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		logger.Error("Error generating answer: %v", err)
		response.Answer = fmt.Sprintf("Sorry, I encountered an error while generating the answer: %v", err)
		response.Error = err.Error()
		return response
	}
	answer = strings.TrimSpace(answer)

	response.Answer = answer
	response.Sources = extractCitations(chunks)
	response.DocumentsRetrieved = len(chunks)
	response.Success = true

	if session != nil {
		session.Record(question, answer)
	}
	s.logQuery(ctx, question, answer, len(chunks), filter)
	return response
}

// QueryWithFollowups answers the main question, then runs the pipeline
// independently for each follow-up. Nothing is shared between runs.
func (s *QueryService) QueryWithFollowups(
	ctx context.Context,
	session *domain.Session,
	question string,
	followups []string,
	opts domain.QueryOptions,
) domain.QueryResponse {
	response := s.Query(ctx, session, question, opts)

	for _, followup := range followups {
		followupResp := s.Query(ctx, session, followup, opts)
		response.FollowUps = append(response.FollowUps, domain.FollowUp{
			Question: followup,
			Answer:   followupResp.Answer,
			Sources:  followupResp.Sources,
		})
	}
	return response
}

// baseSuggestions are shown when no category-specific list applies.
var baseSuggestions = []string{
	"What are the company policies?",
	"How do I submit a vacation request?",
	"What are the working hours?",
	"What is the dress code policy?",
	"How do I access company resources?",
	"What are the benefits provided?",
	"How do I report an issue?",
	"What is the remote work policy?",
	"How do I get IT support?",
	"What are the safety protocols?",
}

var categorySuggestions = map[string][]string{
	"hr": {
		"What is the hiring process?",
		"How do I update my personal information?",
		"What is the performance review process?",
		"How do I request time off?",
		"What are the employee benefits?",
	},
	"policies": {
		"What is the code of conduct?",
		"What is the data privacy policy?",
		"What are the security guidelines?",
		"What is the expense reimbursement policy?",
		"What is the travel policy?",
	},
	"sops": {
		"How do I perform system maintenance?",
		"What is the incident response procedure?",
		"How do I deploy new software?",
		"What is the backup procedure?",
		"How do I handle customer complaints?",
	},
}

// Suggestions returns curated example questions. A recognised category
// overrides the generic list.
func Suggestions(category string) []string {
	if list, ok := categorySuggestions[strings.ToLower(strings.TrimSpace(category))]; ok {
		out := make([]string, len(list))
		copy(out, list)
		return out
	}
	out := make([]string, len(baseSuggestions))
	copy(out, baseSuggestions)
	return out
}

// Suggestions implements the driving port.
func (s *QueryService) Suggestions(category string) []string {
	return Suggestions(category)
}

// QueryStats aggregates the query log.
func (s *QueryService) QueryStats(ctx context.Context) (*domain.QueryStats, error) {
	return s.metadata.GetQueryStats(ctx)
}

// resolveFilter picks the category filter: explicit option first, then
// the session's selected category. General means unfiltered.
func (s *QueryService) resolveFilter(session *domain.Session, opts domain.QueryOptions) string {
	filter := strings.ToLower(strings.TrimSpace(opts.CategoryFilter))
	if filter == "" && session != nil && session.Category != "" {
		filter = session.Category.String()
	}
	if filter == domain.CategoryGeneral.String() {
		return ""
	}
	return filter
}

// filterByCategory keeps chunks matching the filter. Retrieval happens
// before filtering, so fewer than topK results can survive even when the
// corpus holds more matching chunks.
func filterByCategory(chunks []domain.Chunk, filter string) []domain.Chunk {
	if filter == "" {
		return chunks
	}
	filtered := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.EqualFold(chunk.Category.String(), filter) {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}

// formatContext labels each chunk with a stable source marker the answer
// can reference.
func formatContext(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = fmt.Sprintf("[Source %d: %s (chunk %d)]\n%s\n", i+1, chunk.Filename, chunk.ChunkIndex, chunk.Content)
	}
	return strings.Join(parts, "\n")
}

func extractCitations(chunks []domain.Chunk) []domain.Citation {
	citations := make([]domain.Citation, len(chunks))
	for i, chunk := range chunks {
		citations[i] = domain.Citation{
			SourceNumber:    i + 1,
			Filename:        chunk.Filename,
			ChunkIndex:      chunk.ChunkIndex,
			Category:        chunk.Category,
			UploadTimestamp: chunk.UploadTimestamp,
			ContentPreview:  domain.Preview(chunk.Content),
		}
	}
	return citations
}

// logQuery records the exchange best-effort; a failed write never fails
// the query.
func (s *QueryService) logQuery(ctx context.Context, question, answer string, retrieved int, filter string) {
	_, err := s.metadata.LogQuery(ctx, domain.QueryLogEntry{
		Question:           question,
		Answer:             answer,
		DocumentsRetrieved: retrieved,
		Timestamp:          time.Now(),
		Model:              s.llm.ModelName(),
		CategoryFilter:     filter,
	})
	if err != nil {
		logger.Warn("Failed to log query: %v", err)
	}
}
