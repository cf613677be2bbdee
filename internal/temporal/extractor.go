// Package temporal extracts dates and fiscal periods from document text
// and filenames, normalises them to canonical forms, and synthesises the
// [TEMPORAL_CONTEXT: ...] prefix used to bias embeddings.
package temporal

import (
	"regexp"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

// DateOrder selects how ambiguous numeric dates (a-b-YYYY, a/b/YYYY)
// are interpreted.
type DateOrder int

const (
	// DateOrderMDY treats ambiguous numeric dates as month-day-year (US).
	DateOrderMDY DateOrder = iota

	// DateOrderDMY treats ambiguous numeric dates as day-month-year.
	DateOrderDMY
)

// Extractor recognises temporal entities in free text and filenames.
// It is stateless apart from configuration and safe for concurrent use.
type Extractor struct {
	dateOrder DateOrder
}

// Option configures the extractor.
type Option func(*Extractor)

// WithDateOrder sets the interpretation of ambiguous numeric dates.
// The default is DateOrderMDY.
func WithDateOrder(order DateOrder) Option {
	return func(e *Extractor) {
		e.dateOrder = order
	}
}

// New creates a new temporal extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{dateOrder: DateOrderMDY}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// scanPattern pairs a compiled regex with the entity type it produces.
// Patterns run in a fixed order; deduplication by span is first-match-wins,
// so earlier (more specific) patterns shadow later ones.
type scanPattern struct {
	re  *regexp.Regexp
	typ domain.EntityType
}

var scanPatterns = []scanPattern{
	// Explicit dates.
	{regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), domain.EntityDate},
	{regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`), domain.EntityDate},
	// Full month names with optional ordinals (st, nd, rd, th) and
	// flexible separators (comma, period, space).
	{regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?[,.\s]+\d{4}\b`), domain.EntityDate},
	// Abbreviated month names with the same flexibility.
	{regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?[,.\s]+\d{4}\b`), domain.EntityDate},
	// Day first (7 January 2025, 7th of January 2025).
	{regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:January|February|March|April|May|June|July|August|September|October|November|December)[,.\s]+\d{4}\b`), domain.EntityDate},

	// Fiscal periods.
	{regexp.MustCompile(`(?i)\bQ[1-4]\s+(?:FY\s*)?(?:\d{4}|\d{2})\b`), domain.EntityFiscalQuarter},
	{regexp.MustCompile(`(?i)\b(?:FY|Fiscal\s+Year)\s*(?:\d{4}|\d{2})\b`), domain.EntityFiscalYear},
	{regexp.MustCompile(`(?i)\b(?:first|second|third|fourth)\s+quarter\s+(?:of\s+)?\d{4}\b`), domain.EntityFiscalQuarter},
	{regexp.MustCompile(`(?i)\bH[1-2]\s+\d{4}\b`), domain.EntityFiscalHalf},

	// Relative references.
	{regexp.MustCompile(`(?i)\b(?:last|previous|past)\s+(?:year|quarter|month|week)\b`), domain.EntityRelativeDate},
	{regexp.MustCompile(`(?i)\b(?:this|current)\s+(?:year|quarter|month|week)\b`), domain.EntityRelativeDate},
	{regexp.MustCompile(`(?i)\b(?:next|coming|upcoming)\s+(?:year|quarter|month|week)\b`), domain.EntityRelativeDate},
	{regexp.MustCompile(`(?i)\b\d+\s+(?:years|quarters|months|weeks|days)\s+ago\b`), domain.EntityRelativeDate},

	// Bare years and month-year.
	{regexp.MustCompile(`\b(?:19|20)\d{2}\b`), domain.EntityYear},
	{regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`), domain.EntityMonthYear},
}

// ExtractTemporalInfo scans text for temporal entities. Matches are
// deduplicated by exact span, first occurrence wins. When the text is
// table-annotated, entities inside a [TABLE n]...[END TABLE] block carry
// a TableContext. Output order is extraction order, not positional
// order; callers needing positional order must sort by Span.
func (e *Extractor) ExtractTemporalInfo(text string) []domain.TemporalEntity {
	var entities []domain.TemporalEntity
	seen := make(map[domain.Span]bool)

	for _, p := range scanPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			span := domain.Span{Start: loc[0], End: loc[1]}
			if seen[span] {
				continue
			}
			seen[span] = true

			entities = append(entities, domain.TemporalEntity{
				Type:         p.typ,
				Value:        text[span.Start:span.End],
				Span:         span,
				TableContext: tableContext(text, span),
			})
		}
	}

	return entities
}
