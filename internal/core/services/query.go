package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driving"
	"github.com/tempora-labs/tempora-cli/internal/logger"
	"github.com/tempora-labs/tempora-cli/internal/temporal"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultTopK is the number of results returned when the caller does
// not specify one.
const DefaultTopK = 10

// QueryService answers queries against the vector index with temporal
// filtering and recency sorting.
type QueryService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
	extractor   *temporal.Extractor
	ranker      *TemporalRanker
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithQueryExtractor overrides the default temporal extractor. The
// ranker is rebuilt on the same extractor so filter extraction and
// query enhancement stay consistent.
func WithQueryExtractor(e *temporal.Extractor) QueryOption {
	return func(s *QueryService) {
		s.extractor = e
		s.ranker = NewTemporalRanker(e)
	}
}

// NewQueryService creates a new query service.
func NewQueryService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	opts ...QueryOption,
) *QueryService {
	extractor := temporal.New()
	s := &QueryService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		extractor:   extractor,
		ranker:      NewTemporalRanker(extractor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query embeds the temporally enhanced query text, searches the
// vector index, hydrates the hits and applies temporal post-processing:
// an explicit filter takes precedence over one extracted from the
// query, and temporal intent triggers a final recency sort.
func (s *QueryService) Query(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResponse, error) {
	logger.Section("Query Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.QueryResponse{Query: query, Results: []domain.QueryResult{}}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	// Request more hits than asked for so temporal filtering does not
	// starve the result set.
	internalLimit := topK * 2

	// The same enhancement path runs at ingest time, so temporally
	// similar text embeds close together.
	enhanced := s.extractor.EnhanceTextWithTemporalContext(query, nil)
	if enhanced != query {
		logger.Debug("Enhanced query: %q", enhanced)
	}

	embedding, err := s.embedder.Embed(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, internalLimit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	results, err := s.hydrateResults(ctx, hits)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	sortByScore(results)

	// Explicit filter takes precedence over one extracted from the
	// query text.
	effectiveFilter := opts.Filter
	filterApplied := false
	if effectiveFilter == nil {
		effectiveFilter = s.ranker.ExtractFilterFromQuery(query)
	}
	if effectiveFilter != nil && len(results) > 0 {
		logger.Info("Applying temporal filter: %+v", *effectiveFilter)
		results = s.ranker.ApplyFilter(results, effectiveFilter)
		filterApplied = true
	}

	sortByScore(results)

	recencySorted := false
	if s.ranker.DetectTemporalIntent(query) && len(results) > 0 {
		logger.Info("Temporal intent detected, sorting by recency")
		results = s.ranker.SortByRecency(results)
		recencySorted = true
	}

	if len(results) > topK {
		results = results[:topK]
	}
	logger.Info("Final results: %d", len(results))

	return &domain.QueryResponse{
		Query:         query,
		Results:       results,
		Filter:        effectiveFilter,
		FilterApplied: filterApplied,
		RecencySorted: recencySorted,
	}, nil
}

// hydrateResults converts vector hits to full QueryResult objects.
// Hits whose chunk or document has been deleted are skipped.
func (s *QueryService) hydrateResults(ctx context.Context, hits []driven.VectorHit) ([]domain.QueryResult, error) {
	if s.docStore == nil {
		return nil, errors.New("document store unavailable")
	}

	results := make([]domain.QueryResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}

		results = append(results, domain.QueryResult{
			ID:        chunk.ID,
			Score:     hit.Similarity,
			Title:     doc.Title,
			Content:   chunk.Content,
			Metadata:  chunk.Metadata,
			SourceURI: doc.URI,
			Citation:  buildCitation(doc, chunk, hit.Similarity),
		})
	}

	return results, nil
}

func sortByScore(results []domain.QueryResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
