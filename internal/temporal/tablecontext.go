package temporal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

// tableBlockRe matches one sentinel-delimited table block. Non-greedy so
// adjacent blocks stay separate; DOTALL so rows can span lines.
var tableBlockRe = regexp.MustCompile(`(?s)\[TABLE\s+\d+\](.*?)\[END TABLE\]`)

// genericTableContext marks an entity that sits inside a table but
// could not be mapped to a specific column.
const genericTableContext = "[Table Data]"

// tableContext returns the table annotation for a span, or "" when the
// span is outside every table block in text.
func tableContext(text string, span domain.Span) string {
	for _, m := range tableBlockRe.FindAllStringSubmatchIndex(text, -1) {
		blockStart, blockEnd := m[0], m[1]
		if span.Start < blockStart || span.Start > blockEnd {
			continue
		}

		innerStart, innerEnd := m[2], m[3]
		inner := text[innerStart:innerEnd]
		if strings.TrimSpace(inner) == "" {
			return genericTableContext
		}

		header, ok := LocateCell(inner, span.Start-innerStart)
		if !ok {
			return genericTableContext
		}
		return fmt.Sprintf("[Table Column: %s]", header)
	}

	return ""
}

// LocateCell maps a character offset inside a markdown table body to the
// header of the column containing it. The first non-blank, non-separator
// row is the header row; the separator row (dashes, pipes, spaces) is
// skipped when walking offsets. Returns false when the offset falls on a
// separator row, outside any cell, or in a column with no header.
func LocateCell(tableText string, offset int) (string, bool) {
	if offset < 0 || offset >= len(tableText) {
		return "", false
	}

	lines := strings.Split(tableText, "\n")

	var headers []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || isSeparatorRow(line) {
			continue
		}
		for _, cell := range strings.Split(line, "|") {
			if h := strings.TrimSpace(cell); h != "" {
				headers = append(headers, h)
			}
		}
		break
	}
	if len(headers) == 0 {
		return "", false
	}

	charCount := 0
	for _, line := range lines {
		if isSeparatorRow(line) {
			charCount += len(line) + 1
			continue
		}

		lineStart := charCount
		lineEnd := charCount + len(line)
		if offset < lineStart || offset >= lineEnd {
			charCount += len(line) + 1
			continue
		}

		posInLine := offset - lineStart
		cells := strings.Split(line, "|")
		cellStart := 0
		for i, cell := range cells {
			cellEnd := cellStart + len(cell)
			if posInLine >= cellStart && posInLine < cellEnd {
				// A leading pipe produces an empty first cell;
				// shift the index so it lines up with headers.
				cellIndex := i
				if strings.TrimSpace(cells[0]) == "" {
					cellIndex = i - 1
				}
				if cellIndex >= 0 && cellIndex < len(headers) {
					return headers[cellIndex], true
				}
				return "", false
			}
			cellStart = cellEnd + 1 // +1 for the pipe
		}
		return "", false
	}

	return "", false
}

// isSeparatorRow reports whether a line is a markdown separator row,
// i.e. non-blank and built only from dashes, pipes and spaces.
func isSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r != '-' && r != '|' && r != ' ' {
			return false
		}
	}
	return true
}
