package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/logger"
)

// monthNumbers maps lowercase month names and abbreviations to "MM".
var monthNumbers = map[string]string{
	"january": "01", "jan": "01",
	"february": "02", "feb": "02",
	"march": "03", "mar": "03",
	"april": "04", "apr": "04",
	"may":  "05",
	"june": "06", "jun": "06",
	"july": "07", "jul": "07",
	"august": "08", "aug": "08",
	"september": "09", "sep": "09", "sept": "09",
	"october": "10", "oct": "10",
	"november": "11", "nov": "11",
	"december": "12", "dec": "12",
}

var quarterWords = map[string]string{
	"first": "1", "second": "2", "third": "3", "fourth": "4",
}

// Filename pattern families, tried in strict priority order. RE2 has no
// lookarounds, so the "not part of a longer digit run" guards from the
// compact forms are expressed as captured non-digit boundaries.
var (
	fullDateSepRe     = regexp.MustCompile(`(\d{4})[_\-](\d{2})[_\-](\d{2})`)
	fullDateCompactRe = regexp.MustCompile(`(?:^|[^\d])(\d{4})(\d{2})(\d{2})(?:[^\d]|$)`)
	fullDateYearLast  = regexp.MustCompile(`(\d{2})[_\-](\d{2})[_\-](\d{4})`)

	monthDayYearRe = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)[_\-\s,]+(\d{1,2})(?:st|nd|rd|th)?[,\s.]+(\d{4})`)
	abbrDayYearRe  = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?[,\s.]+(\d{4})`)
	dayFirstRe     = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(January|February|March|April|May|June|July|August|September|October|November|December)[,\s.]+(\d{4})`)

	quarterRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Q([1-4])[_\-\s]*(?:FY[_\-\s]*)?(\d{4})`),
		regexp.MustCompile(`(?i)Q([1-4])[_\-\s]*(?:FY)?(\d{2})`),
		regexp.MustCompile(`(?i)(\d{4})[_\-\s]*Q([1-4])`),
		regexp.MustCompile(`(?i)(first|second|third|fourth)[_\-\s]+quarter[_\-\s]*(\d{4})`),
	}

	monthYearNameRe = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)[_\-\s]*(\d{4})`)
	monthYearAbbrRe = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[_\-\s]*(\d{4})`)
	yearMonthRe     = regexp.MustCompile(`(\d{4})[_\-](\d{2})(?:[^\d]|$)`)

	fiscalYearRe   = regexp.MustCompile(`(?i)(?:FY|Fiscal[_\-\s]*Year)[_\-\s]*(\d{4})`)
	fiscalYear2Re  = regexp.MustCompile(`(?i)FY[_\-\s]*(\d{2})(?:[^\d]|$)`)
	standaloneYear = regexp.MustCompile(`(?:^|[^\d])((?:19|20)\d{2})(?:[^\d]|$)`)
)

// ExtractDateFromFilename extracts the most specific temporal marker from
// a filename. Priority is full date > fiscal quarter > month-year > year;
// a higher-priority match always wins, malformed candidates are rejected
// by range validation and the search continues. Never fails; the second
// return value is false when nothing matched.
func (e *Extractor) ExtractDateFromFilename(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}

	name := filename
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[:idx]
	}

	if date, ok := e.fullDateFromName(name); ok {
		logger.Debug("Filename date: %q -> %s", filename, date)
		return date, true
	}
	if quarter, ok := quarterFromName(name); ok {
		logger.Debug("Filename quarter: %q -> %s", filename, quarter)
		return quarter, true
	}
	if monthYear, ok := monthYearFromName(name); ok {
		logger.Debug("Filename month-year: %q -> %s", filename, monthYear)
		return monthYear, true
	}
	if year, ok := yearFromName(name); ok {
		logger.Debug("Filename year: %q -> %s", filename, year)
		return year, true
	}

	return "", false
}

// fullDateFromName tries the full-date pattern families against a
// filename without extension.
func (e *Extractor) fullDateFromName(name string) (string, bool) {
	numericRes := []*regexp.Regexp{fullDateSepRe, fullDateCompactRe, fullDateYearLast}
	for _, re := range numericRes {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		var year, month, day string
		if len(m[1]) == 4 {
			year, month, day = m[1], m[2], m[3]
		} else {
			// Year last: ordering of the two leading fields is the
			// configured policy, US month-first by default.
			switch e.dateOrder {
			case DateOrderDMY:
				day, month, year = m[1], m[2], m[3]
			default:
				month, day, year = m[1], m[2], m[3]
			}
		}

		if validDateParts(year, month, day) {
			return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day)), true
		}
	}

	if m := monthDayYearRe.FindStringSubmatch(name); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		if validDateParts(m[3], month, m[2]) {
			return fmt.Sprintf("%s-%s-%s", m[3], month, pad2(m[2])), true
		}
	}
	if m := abbrDayYearRe.FindStringSubmatch(name); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		if validDateParts(m[3], month, m[2]) {
			return fmt.Sprintf("%s-%s-%s", m[3], month, pad2(m[2])), true
		}
	}
	if m := dayFirstRe.FindStringSubmatch(name); m != nil {
		month := monthNumbers[strings.ToLower(m[2])]
		if validDateParts(m[3], month, m[1]) {
			return fmt.Sprintf("%s-%s-%s", m[3], month, pad2(m[1])), true
		}
	}

	return "", false
}

func quarterFromName(name string) (string, bool) {
	for _, re := range quarterRes {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		var quarter, year string
		switch {
		case len(m[1]) == 4 && isDigits(m[1]):
			// Year-first form (2023Q1).
			year, quarter = m[1], m[2]
		case quarterWords[strings.ToLower(m[1])] != "":
			quarter = quarterWords[strings.ToLower(m[1])]
			year = m[2]
		default:
			quarter, year = m[1], m[2]
			if len(year) == 2 {
				year = "20" + year
			}
		}

		return fmt.Sprintf("Q%s %s", quarter, year), true
	}
	return "", false
}

func monthYearFromName(name string) (string, bool) {
	for _, re := range []*regexp.Regexp{monthYearNameRe, monthYearAbbrRe, yearMonthRe} {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		if isDigits(m[1]) {
			// Year-first form (2023-01).
			month := pad2(m[2])
			if n, err := strconv.Atoi(month); err == nil && n >= 1 && n <= 12 {
				return fmt.Sprintf("%s-%s", m[1], month), true
			}
			return "", false
		}

		month := monthNumbers[strings.ToLower(m[1])]
		return fmt.Sprintf("%s-%s", m[2], month), true
	}
	return "", false
}

func yearFromName(name string) (string, bool) {
	for _, re := range []*regexp.Regexp{fiscalYearRe, fiscalYear2Re, standaloneYear} {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		year := m[1]
		if len(year) == 2 {
			year = "20" + year
		}

		if n, err := strconv.Atoi(year); err == nil && n >= 1900 && n <= 2100 {
			return year, true
		}
	}
	return "", false
}

// validDateParts range-checks the components of a candidate full date.
func validDateParts(year, month, day string) bool {
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return false
	}
	return y >= 1900 && y <= 2100 && m >= 1 && m <= 12 && d >= 1 && d <= 31
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
