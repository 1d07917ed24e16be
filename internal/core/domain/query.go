package domain

import (
	"time"
	"unicode/utf8"
)

// PreviewLimit caps a citation's content preview length in bytes.
// Truncated previews carry an ellipsis suffix.
const PreviewLimit = 200

// QueryOptions configures a retrieval-augmented query.
type QueryOptions struct {
	// TopK is the maximum number of chunks to retrieve (default 5).
	TopK int

	// CategoryFilter restricts results to one category when non-empty.
	// Filtering happens after top-k retrieval, so fewer than TopK (or
	// zero) results can remain even when matching chunks exist outside
	// the retrieval window.
	CategoryFilter string
}

// Citation identifies a chunk that supported a generated answer.
type Citation struct {
	// SourceNumber is the 1-based position in retrieval order.
	SourceNumber int `json:"source_number"`

	// Filename is the chunk's originating file.
	Filename string `json:"filename"`

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int `json:"chunk_index"`

	// Category is the chunk's classification tag.
	Category Category `json:"category"`

	// UploadTimestamp is when the chunk was ingested.
	UploadTimestamp time.Time `json:"upload_timestamp"`

	// ContentPreview is the chunk content capped at PreviewLimit bytes,
	// ellipsis-suffixed when truncated.
	ContentPreview string `json:"content_preview"`
}

// Preview truncates content to at most PreviewLimit bytes, appending an
// ellipsis when anything was cut. The cut never splits a UTF-8 rune.
func Preview(content string) string {
	if len(content) <= PreviewLimit {
		return content
	}
	cut := PreviewLimit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}

// FollowUp is the outcome of one follow-up question, produced by an
// independent run of the full query pipeline.
type FollowUp struct {
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Sources  []Citation `json:"sources"`
}

// QueryResponse is the transient structured result of a query.
// It is not persisted beyond the corresponding QueryLogEntry.
type QueryResponse struct {
	// Answer is the generated answer, or a human-readable failure
	// message when Success is false.
	Answer string `json:"answer"`

	// Sources cites the retrieved chunks, in descending similarity order.
	Sources []Citation `json:"sources"`

	// Query echoes the question asked.
	Query string `json:"query"`

	// Timestamp is when the query was processed.
	Timestamp time.Time `json:"timestamp"`

	// Model is the model name that generated the answer.
	Model string `json:"model"`

	// DocumentsRetrieved is the number of chunks that survived filtering.
	DocumentsRetrieved int `json:"documents_retrieved"`

	// CategoryFilter echoes the filter applied, if any.
	CategoryFilter string `json:"category_filter,omitempty"`

	// Success is false for the no-results path and for generation errors.
	Success bool `json:"success"`

	// Error carries the failure detail when Success is false.
	Error string `json:"error,omitempty"`

	// FollowUps holds results of follow-up questions, when requested.
	FollowUps []FollowUp `json:"follow_ups,omitempty"`
}

// QueryLogEntry is the append-only record of one processed query.
type QueryLogEntry struct {
	ID                 string    `json:"id"`
	Question           string    `json:"question"`
	Answer             string    `json:"answer"`
	DocumentsRetrieved int       `json:"documents_retrieved"`
	Timestamp          time.Time `json:"timestamp"`
	Model              string    `json:"model"`
	CategoryFilter     string    `json:"category_filter,omitempty"`
}

// PopularQuery is one entry in the query-frequency ranking.
type PopularQuery struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// QueryStats aggregates the query log.
type QueryStats struct {
	TotalQueries       int            `json:"total_queries"`
	CategoriesSearched map[string]int `json:"categories_searched"`

	// PopularQueries is the top 10 questions by frequency.
	PopularQueries []PopularQuery `json:"popular_queries"`
}

// IngestResult is the per-file outcome of the ingestion pipeline.
type IngestResult struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	ChunksCreated int    `json:"chunks_created,omitempty"`
	MetadataID    string `json:"metadata_id,omitempty"`

	// Skipped is true when the file's content was already ingested and
	// deduplication short-circuited the pipeline.
	Skipped bool `json:"skipped,omitempty"`

	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}
