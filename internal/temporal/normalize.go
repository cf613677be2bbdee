package temporal

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/tempora-labs/tempora-cli/internal/logger"
)

var (
	// Ordinal suffixes are stripped only when they immediately follow a
	// digit; "August" must never be corrupted into "Augu".
	ordinalAfterDigitRe = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)\b`)

	// A period directly before a 4-digit year separates date
	// components, as in "January 7.2025".
	periodBeforeYearRe = regexp.MustCompile(`\.(\d{4})`)

	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Layouts tried against the cleaned, tokenised date string. Ambiguous
// slash layouts are ordered by the configured DateOrder.
var dateLayoutsMDY = []string{
	"2006-01-02",
	"1/2/2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/1/2",
}

var dateLayoutsDMY = []string{
	"2006-01-02",
	"2/1/2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/1/2",
}

// NormalizeDate converts a free-form date string to YYYY-MM-DD. It is
// the single source of truth for canonical dates: document dates and
// query dates must both pass through here or embedding similarity
// between them silently degrades. Idempotent for any input that
// normalises successfully. Returns false when the string does not
// describe a full date.
func (e *Extractor) NormalizeDate(dateString string) (string, bool) {
	s := strings.TrimSpace(dateString)
	if s == "" {
		return "", false
	}

	cleaned := ordinalAfterDigitRe.ReplaceAllString(s, "$1")
	cleaned = periodBeforeYearRe.ReplaceAllString(cleaned, " $1")
	cleaned = canonicaliseDateTokens(cleaned)

	layouts := dateLayoutsMDY
	if e.dateOrder == DateOrderDMY {
		layouts = dateLayoutsDMY
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			normalized := t.Format("2006-01-02")
			logger.Debug("Normalized date %q -> %s", dateString, normalized)
			return normalized, true
		}
	}

	// Parse failed; an already-ISO string passes through unchanged so
	// normalisation stays idempotent even for out-of-layout values.
	if isoDateRe.MatchString(s) {
		return s, true
	}

	logger.Debug("Could not normalize date %q", dateString)
	return "", false
}

// normalizeMonthYear converts a "January 2025" style string to YYYY-MM.
func (e *Extractor) normalizeMonthYear(s string) (string, bool) {
	cleaned := canonicaliseDateTokens(s)
	for _, layout := range []string{"January 2006", "Jan 2006"} {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("2006-01"), true
		}
	}
	return "", false
}

// canonicaliseDateTokens rewrites a date string into the whitespace
// separated, title-cased token form the parse layouts expect:
// "JANUARY 28,2025" -> "January 28 2025", "Jan. 7 2025" -> "Jan 7 2025".
func canonicaliseDateTokens(s string) string {
	s = strings.ReplaceAll(s, ",", " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	fields := strings.Fields(s)
	for i, f := range fields {
		f = strings.TrimSuffix(f, ".")
		if f == "" {
			fields[i] = ""
			continue
		}
		if !unicode.IsLetter(rune(f[0])) {
			fields[i] = f
			continue
		}
		if strings.EqualFold(f, "of") {
			fields[i] = ""
			continue
		}
		fields[i] = strings.ToUpper(f[:1]) + strings.ToLower(f[1:])
	}

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}
