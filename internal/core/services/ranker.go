package services

import (
	"sort"
	"strings"
	"time"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/logger"
	"github.com/tempora-labs/tempora-cli/internal/temporal"
)

// temporalKeywords signal that a query wants the freshest results.
// Matched as case-insensitive substrings.
var temporalKeywords = []string{
	"latest", "most recent", "newest", "current", "recent",
	"last", "up to date", "up-to-date", "today", "this year",
	"this quarter", "this month",
}

// dateKeyLayouts are tried in order when parsing stored dates for
// recency sorting.
var dateKeyLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC3339,
}

// TemporalRanker applies temporal filtering and recency sorting to
// query results.
type TemporalRanker struct {
	extractor *temporal.Extractor
}

// NewTemporalRanker creates a ranker backed by the given extractor.
func NewTemporalRanker(extractor *temporal.Extractor) *TemporalRanker {
	return &TemporalRanker{extractor: extractor}
}

// DetectTemporalIntent reports whether the query asks for recency.
func (r *TemporalRanker) DetectTemporalIntent(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range temporalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractFilterFromQuery derives an implicit temporal filter from the
// query text. The first full date wins; otherwise the highest bare
// year. Returns nil when the query carries no usable criterion.
func (r *TemporalRanker) ExtractFilterFromQuery(query string) *domain.TemporalFilter {
	entities := r.extractor.ExtractTemporalInfo(query)
	if len(entities) == 0 {
		return nil
	}

	var dates, years []string
	for _, ent := range entities {
		switch ent.Type {
		case domain.EntityDate:
			dates = append(dates, ent.Value)
		case domain.EntityYear:
			years = append(years, ent.Value)
		}
	}

	if len(dates) > 0 {
		raw := dates[0]
		if normalized, ok := r.extractor.NormalizeDate(raw); ok {
			logger.Info("Extracted date filter: %s -> %s", raw, normalized)
			return &domain.TemporalFilter{DocumentDate: normalized}
		}
		logger.Warn("Could not normalize date filter %q, using as-is", raw)
		return &domain.TemporalFilter{DocumentDate: raw}
	}

	if len(years) > 0 {
		year := years[0]
		for _, y := range years[1:] {
			if y > year {
				year = y
			}
		}
		logger.Info("Extracted year filter: %s", year)
		return &domain.TemporalFilter{Year: year}
	}

	return nil
}

// ApplyFilter keeps only results matching the filter criterion.
// Date filters match document_date by prefix, so a "2024-06" filter
// matches any day in June 2024. Year filters match by substring, so
// non-ISO stored dates like "Q4 2024" still match. Result order is
// preserved. A nil or empty filter passes everything through.
func (r *TemporalRanker) ApplyFilter(results []domain.QueryResult, filter *domain.TemporalFilter) []domain.QueryResult {
	if filter == nil || filter.IsZero() || len(results) == 0 {
		return results
	}

	filtered := make([]domain.QueryResult, 0, len(results))
	for _, res := range results {
		docDate := metadataString(res.Metadata, "document_date")
		switch {
		case filter.DocumentDate != "":
			if strings.HasPrefix(docDate, filter.DocumentDate) {
				filtered = append(filtered, res)
			}
		case filter.Year != "":
			if strings.Contains(docDate, filter.Year) {
				filtered = append(filtered, res)
			}
		}
	}

	logger.Info("Temporal filter applied: %d/%d results matched", len(filtered), len(results))
	return filtered
}

// SortByRecency orders results newest first. The sort key is the
// parsed document_date, then uploaded_at, then the zero time so
// undated results sink to the bottom. The sort is stable, preserving
// relative score order among equally dated results.
func (r *TemporalRanker) SortByRecency(results []domain.QueryResult) []domain.QueryResult {
	sort.SliceStable(results, func(i, j int) bool {
		return dateKey(results[i]).After(dateKey(results[j]))
	})
	return results
}

// dateKey resolves the timestamp used for recency sorting.
func dateKey(res domain.QueryResult) time.Time {
	if t, ok := parseDateValue(metadataString(res.Metadata, "document_date")); ok {
		return t
	}
	if t, ok := parseDateValue(metadataString(res.Metadata, "uploaded_at")); ok {
		return t
	}
	return time.Time{}
}

func parseDateValue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateKeyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// metadataString fetches a metadata value as a string, tolerating
// missing keys and non-string values.
func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	v, ok := metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
