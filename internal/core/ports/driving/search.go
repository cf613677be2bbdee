package driving

import (
	"context"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

// QueryService answers search queries with temporally filtered,
// citation-annotated results.
type QueryService interface {
	// Query embeds the (temporally enhanced) query text, searches the
	// vector index and post-processes the results with temporal
	// filtering and optional recency sorting.
	Query(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResponse, error)
}
