package temporal

import (
	"fmt"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/logger"
)

// maxPrefixLength caps the temporal context prefix so it never dominates
// the embedded text.
const maxPrefixLength = 200

// EnhanceTextWithTemporalContext prepends a [TEMPORAL_CONTEXT: ...]
// prefix summarising the temporal signals in text and metadata. The
// same call path runs for document content at ingest time and for query
// text at query time; that symmetry is what makes temporal filtering on
// embeddings work. Text with no temporal signal is returned unchanged.
func (e *Extractor) EnhanceTextWithTemporalContext(text string, metadata map[string]any) string {
	entities := e.ExtractTemporalInfo(text)

	var parts []string

	if v := metadataString(metadata, "document_date"); v != "" {
		parts = append(parts, "Document Date: "+v)
	}
	if v := metadataString(metadata, "created_at"); v != "" {
		parts = append(parts, "Created: "+v)
	}

	if len(entities) > 0 {
		var (
			dates, years, quarters, fiscalYears, monthYears, relatives []string

			anyTable        bool
			anyTableQuarter bool
		)
		for _, ent := range entities {
			if ent.TableContext != "" {
				anyTable = true
				if ent.Type == domain.EntityFiscalQuarter {
					anyTableQuarter = true
				}
			}
			switch ent.Type {
			case domain.EntityDate:
				if normalized, ok := e.NormalizeDate(ent.Value); ok {
					dates = append(dates, normalized)
				} else {
					dates = append(dates, ent.Value)
				}
			case domain.EntityYear:
				years = append(years, ent.Value)
			case domain.EntityFiscalQuarter:
				quarters = append(quarters, ent.Value)
			case domain.EntityFiscalYear:
				fiscalYears = append(fiscalYears, ent.Value)
			case domain.EntityMonthYear:
				if normalized, ok := e.normalizeMonthYear(ent.Value); ok {
					monthYears = append(monthYears, normalized)
				} else {
					monthYears = append(monthYears, ent.Value)
				}
			case domain.EntityRelativeDate:
				relatives = append(relatives, ent.Value)
			}
		}

		if anyTable {
			parts = append(parts, "Contains Table Data")
		}
		if vals := dedupCap(dates, 3); len(vals) > 0 {
			parts = append(parts, "Dates: "+strings.Join(vals, ", "))
		}
		if vals := dedupCap(quarters, 3); len(vals) > 0 {
			label := "Fiscal Quarters: "
			if anyTableQuarter {
				label = "Fiscal Quarters (Tabular): "
			}
			parts = append(parts, label+strings.Join(vals, ", "))
		}
		if vals := dedupCap(fiscalYears, 3); len(vals) > 0 {
			parts = append(parts, "Fiscal Years: "+strings.Join(vals, ", "))
		}
		if vals := dedupCap(monthYears, 3); len(vals) > 0 {
			parts = append(parts, "Periods: "+strings.Join(vals, ", "))
		}
		if vals := dedupCap(relatives, 2); len(vals) > 0 {
			parts = append(parts, "References: "+strings.Join(vals, ", "))
		}
		// Bare years are lower-granularity noise when a finer entity
		// already captured the same information.
		if len(dates) == 0 && len(monthYears) == 0 && len(fiscalYears) == 0 {
			if vals := dedupCap(years, 3); len(vals) > 0 {
				parts = append(parts, "Years: "+strings.Join(vals, ", "))
			}
		}
	}

	if len(parts) == 0 {
		return text
	}

	fullContext := strings.Join(parts, " | ")
	prefix := fmt.Sprintf("[TEMPORAL_CONTEXT: %s]\n", fullContext)

	if len(prefix) > maxPrefixLength {
		// Truncate at the last complete |-delimited segment, never
		// mid-segment.
		truncated := fullContext[:maxPrefixLength-50]
		if lastSep := strings.LastIndex(truncated, "|"); lastSep > 0 {
			truncated = strings.TrimSpace(truncated[:lastSep])
		}
		prefix = fmt.Sprintf("[TEMPORAL_CONTEXT: %s...]\n", truncated)
		logger.Info("Temporal context truncated: %d -> %d chars", len(fullContext), len(truncated))
	}

	return prefix + text
}

// dedupCap deduplicates values preserving first-seen order and caps the
// result at limit entries.
func dedupCap(values []string, limit int) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
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
	return fmt.Sprint(v)
}
