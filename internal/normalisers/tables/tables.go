// Package tables renders extracted table data as aligned markdown and
// wraps it in the [TABLE n]...[END TABLE] sentinel blocks the chunker
// and temporal extractor pattern-match on.
package tables

import (
	"fmt"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/logger"
)

// ToMarkdown converts a 2D cell grid to an aligned markdown table. The
// first row becomes the header. Blank rows are dropped; short rows are
// padded to the widest row. Returns "" when the cleaned table has fewer
// than 2 rows or fewer than 2 columns, which callers treat as
// validation failure.
func ToMarkdown(table [][]string) string {
	var rows [][]string
	for _, row := range table {
		if IsEmptyRow(row) {
			continue
		}
		cleaned := make([]string, len(row))
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, cleaned)
	}

	if len(rows) < 2 {
		logger.Warn("Table has fewer than 2 rows, skipping")
		return ""
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount < 2 {
		logger.Warn("Table has fewer than 2 columns, skipping")
		return ""
	}

	for i, row := range rows {
		for len(row) < colCount {
			row = append(row, "")
		}
		rows[i] = row[:colCount]
	}

	widths := make([]int, colCount)
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var lines []string
	lines = append(lines, formatRow(rows[0], widths))

	separator := make([]string, colCount)
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}
	lines = append(lines, formatRow(separator, widths))

	for _, row := range rows[1:] {
		lines = append(lines, formatRow(row, widths))
	}

	return strings.Join(lines, "\n")
}

// Wrap encloses a rendered markdown table in sentinel markers. n is the
// 1-based table number within the document.
func Wrap(markdown string, n int) string {
	return fmt.Sprintf("[TABLE %d]\n%s\n[END TABLE]", n, markdown)
}

// IsEmptyRow reports whether every cell in a row is blank.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
	}
	return "| " + strings.Join(padded, " | ") + " |"
}
