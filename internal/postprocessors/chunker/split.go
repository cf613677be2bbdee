package chunker

import (
	"strings"
	"unicode/utf8"
)

// splitText splits text into chunk-sized pieces using the separator
// hierarchy, then merges undersized pieces with overlap. Separators are
// tried coarsest first; splitting stops as soon as every piece fits.
func (p *Processor) splitText(text string) []string {
	pieces := []string{text}

	for _, separator := range p.separators {
		var next []string
		for _, piece := range pieces {
			if len(piece) <= p.chunkSize {
				next = append(next, piece)
			} else {
				next = append(next, p.splitBySeparator(piece, separator)...)
			}
		}
		pieces = next

		if allWithinSize(pieces, p.chunkSize) {
			break
		}
	}

	return p.mergeAndOverlap(pieces)
}

// splitBySeparator splits text on one separator, greedily packing parts
// back together up to the chunk size. A part that is itself oversized
// is kept whole; a finer separator deals with it on the next pass. The
// empty separator is the character-level fallback of last resort.
func (p *Processor) splitBySeparator(text, separator string) []string {
	if separator == "" {
		stride := p.chunkSize - p.overlap
		if stride <= 0 {
			stride = p.chunkSize
		}
		var out []string
		for i := 0; i < len(text); i += stride {
			end := i + p.chunkSize
			if end > len(text) {
				end = len(text)
			}
			out = append(out, text[i:end])
		}
		return out
	}

	parts := strings.Split(text, separator)

	var chunks []string
	current := ""
	for _, part := range parts {
		if len(current)+len(part)+len(separator) > p.chunkSize {
			if current != "" {
				chunks = append(chunks, current)
				current = part
			} else {
				// Part itself is too large, keep it whole.
				chunks = append(chunks, part)
			}
		} else {
			if current != "" {
				current += separator + part
			} else {
				current = part
			}
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// mergeAndOverlap merges undersized pieces into their successor and
// prepends the tail of each finalized chunk to the next one for
// semantic continuity across boundaries.
func (p *Processor) mergeAndOverlap(pieces []string) []string {
	if len(pieces) == 0 {
		return nil
	}

	var final []string
	current := pieces[0]

	for _, next := range pieces[1:] {
		if len(current) < p.chunkSize/2 {
			current = current + " " + next
			continue
		}

		final = append(final, strings.TrimSpace(current))

		if p.overlap > 0 && len(current) > p.overlap {
			current = overlapTail(current, p.overlap) + " " + next
		} else {
			current = next
		}
	}

	if !isBlank(current) {
		final = append(final, strings.TrimSpace(current))
	}

	return final
}

// overlapTail returns at most the last n bytes of s, extended backwards
// to the nearest rune boundary so a multi-byte character is never cut.
func overlapTail(s string, n int) string {
	if n >= len(s) {
		return s
	}
	i := len(s) - n
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[i:]
}

func allWithinSize(pieces []string, size int) bool {
	for _, piece := range pieces {
		if len(piece) > size {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
