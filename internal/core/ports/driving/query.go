package driving

import (
	"context"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

// QueryEngine answers questions over the ingested corpus using
// retrieval-augmented generation.
type QueryEngine interface {
	// Query retrieves relevant chunks, generates an answer, and returns
	// a structured response with citations. Generation errors are
	// converted into a non-success response, never propagated.
	Query(ctx context.Context, session *domain.Session, question string, opts domain.QueryOptions) domain.QueryResponse

	// QueryWithFollowups runs Query, then re-runs the full pipeline
	// independently for each follow-up question. No context is shared
	// between the main and follow-up calls.
	QueryWithFollowups(ctx context.Context, session *domain.Session, question string, followups []string, opts domain.QueryOptions) domain.QueryResponse

	// Suggestions returns curated example questions. A recognised
	// category overrides the generic list.
	Suggestions(category string) []string

	// QueryStats aggregates the query log.
	QueryStats(ctx context.Context) (*domain.QueryStats, error)
}
