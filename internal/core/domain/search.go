package domain

// QueryOptions configures a retrieval query.
type QueryOptions struct {
	// TopK is the number of nearest neighbours to request.
	TopK int

	// Filter is an explicit temporal filter. When set it takes
	// precedence over any filter extracted from the query text.
	Filter *TemporalFilter
}

// QueryResult represents a single scored hit after hydration.
// The core may reorder or drop results but never mutates the
// stored fields except by annotation (Citation).
type QueryResult struct {
	// ID is the matched chunk ID.
	ID string

	// Score is the similarity score (higher is better).
	Score float64

	// Title is the parent document title.
	Title string

	// Content is the chunk text.
	Content string

	// Metadata is the chunk metadata as stored at ingest time.
	Metadata map[string]any

	// SourceURI is the location of the parent document.
	SourceURI string

	// Citation is the formatted citation for this hit.
	Citation Citation
}

// QueryResponse wraps the results of one query with the temporal
// decisions that were applied to them.
type QueryResponse struct {
	// Query is the original query text.
	Query string

	// Results are the filtered, sorted hits.
	Results []QueryResult

	// Filter is the effective temporal filter, nil if none applied.
	Filter *TemporalFilter

	// FilterApplied reports whether any temporal filter ran.
	FilterApplied bool

	// RecencySorted reports whether temporal intent triggered a
	// recency resort.
	RecencySorted bool
}

// Citation carries the attribution details for a query result.
type Citation struct {
	// DocumentID identifies the parent document.
	DocumentID string

	// Title is the document title, or the ID when untitled.
	Title string

	// Score is the relevance score rounded to 4 decimals.
	Score float64

	// PageNumber is the 1-indexed page, 0 when unpaginated.
	PageNumber int

	// ChunkIndex is the document-global chunk index.
	ChunkIndex int

	// PageChunkIndex is the within-page chunk index, -1 when unpaginated.
	PageChunkIndex int

	// QualityScore is the chunk quality metric, 0 when unknown.
	QualityScore float64

	// Link is the preferred clickable URL for the hit.
	Link string

	// Date is the document date, empty when unknown.
	Date string

	// Formatted is the display string,
	// e.g. "Q3 Report (Page 2, Chunk 1) | Date: 2024-08-27 | Relevance: 0.8231".
	Formatted string
}
