package domain

// EntityType classifies a temporal entity found in text.
type EntityType string

// Temporal entity types. The type determines which normalisation
// path applies downstream.
const (
	EntityDate          EntityType = "date"
	EntityYear          EntityType = "year"
	EntityFiscalQuarter EntityType = "fiscal_quarter"
	EntityFiscalYear    EntityType = "fiscal_year"
	EntityFiscalHalf    EntityType = "fiscal_half"
	EntityRelativeDate  EntityType = "relative_date"
	EntityMonthYear     EntityType = "month_year"
)

// Span is a half-open [Start, End) byte range into the scanned text.
type Span struct {
	Start int
	End   int
}

// TemporalEntity is a span of text recognised as a date, year,
// fiscal period or relative time reference. Entities are immutable
// and deduplicated by span.
type TemporalEntity struct {
	// Type selects the normalisation path.
	Type EntityType

	// Value is the matched text, verbatim.
	Value string

	// Span locates the match in the source text.
	Span Span

	// TableContext names the table column the match sits in when
	// the source text is table-annotated, e.g. "[Table Column: Revenue]".
	// Empty when the match is outside any table.
	TableContext string
}

// TemporalFilter is a single-criterion filter applied to query results.
// At most one of DocumentDate or Year is set.
type TemporalFilter struct {
	// DocumentDate matches results whose document_date starts with
	// this value. Partial precision is supported: "2024-06" matches
	// any day in June 2024.
	DocumentDate string

	// Year matches results whose document_date contains this value
	// anywhere, so non-ISO stored dates like "Q4 2024" still match.
	Year string
}

// IsZero reports whether the filter carries no criterion.
func (f TemporalFilter) IsZero() bool {
	return f.DocumentDate == "" && f.Year == ""
}
