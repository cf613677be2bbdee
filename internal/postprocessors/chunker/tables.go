package chunker

import (
	"regexp"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/logger"
)

// tableBlockRe matches one sentinel-delimited table block. Non-greedy so
// adjacent blocks stay separate; DOTALL so rows can span lines.
var tableBlockRe = regexp.MustCompile(`(?s)\[TABLE\s+\d+\](.*?)\[END TABLE\]`)

const (
	tableOpenMarker  = "[TABLE"
	tableCloseMarker = "[END TABLE]"
)

// minTableContent is the minimum inner content length for a table block
// to be considered well formed.
const minTableContent = 5

// TableBlock is a sentinel-delimited table region within a text,
// treated as an atomic unit by the chunker.
type TableBlock struct {
	// Start and End delimit the full block, sentinels included.
	Start int
	End   int

	// Content is the full block text, sentinels included.
	Content string

	// InnerText is the trimmed content between the sentinels.
	InnerText string

	// Size is the length of Content in characters.
	Size int
}

// ExtractTableBlocks finds all table blocks in text, in document order.
// Empty or near-empty blocks are dropped as malformed. Oversized tables
// are logged but kept; table integrity outranks chunk-size adherence.
func (p *Processor) ExtractTableBlocks(text string) []TableBlock {
	var blocks []TableBlock

	for _, m := range tableBlockRe.FindAllStringSubmatchIndex(text, -1) {
		content := text[m[0]:m[1]]
		inner := strings.TrimSpace(text[m[2]:m[3]])

		if len(inner) < minTableContent {
			logger.Warn("Skipping empty or malformed table at position %d", m[0])
			continue
		}

		if len(content) > p.chunkSize*2 {
			logger.Warn("Large table detected (%d chars, exceeds chunk_size %d by %d chars)",
				len(content), p.chunkSize, len(content)-p.chunkSize)
		}

		blocks = append(blocks, TableBlock{
			Start:     m[0],
			End:       m[1],
			Content:   content,
			InnerText: inner,
			Size:      len(content),
		})
	}

	if len(blocks) > 0 {
		logger.Info("Extracted %d table block(s) from text", len(blocks))
	}

	return blocks
}

// segment is a partition of the input text, either free text or one
// atomic table block.
type segment struct {
	content string
	isTable bool
}

// SplitTextTableAware splits text into chunk-sized pieces while keeping
// every table block intact. Free-text regions between tables are split
// hierarchically; table regions pass through whole. The mixed pieces
// are then merged with table-aware rules.
func (p *Processor) SplitTextTableAware(text string, tables []TableBlock) []string {
	if len(tables) == 0 {
		return p.splitText(text)
	}

	var segments []segment
	lastPos := 0

	for _, table := range tables {
		before := text[lastPos:table.Start]
		if !isBlank(before) {
			segments = append(segments, segment{content: before})
		} else if before != "" && len(segments) > 0 {
			// Whitespace-only gap: keep up to two characters of it
			// attached to the previous segment.
			keep := len(before)
			if keep > 2 {
				keep = 2
			}
			segments[len(segments)-1].content += before[len(before)-keep:]
		}

		segments = append(segments, segment{content: table.Content, isTable: true})
		lastPos = table.End
	}

	if after := text[lastPos:]; !isBlank(after) {
		segments = append(segments, segment{content: after})
	}

	var pieces []string
	for _, seg := range segments {
		if seg.isTable {
			pieces = append(pieces, seg.content)
			continue
		}
		if !isBlank(seg.content) {
			pieces = append(pieces, p.splitText(seg.content)...)
		}
	}

	return p.mergeWithTableAwareness(pieces)
}

// mergeWithTableAwareness merges adjacent pieces with hard rules: a
// piece over twice the chunk size is finalized immediately and never
// merged; text-only pieces never merge with table-bearing pieces; and
// overlap is applied only where it cannot duplicate or split a table
// marker, with a reduced cap when a table is nearby.
func (p *Processor) mergeWithTableAwareness(pieces []string) []string {
	if len(pieces) == 0 {
		return nil
	}

	var final []string
	current := pieces[0]
	currentHasTable := strings.Contains(current, tableOpenMarker)
	currentOversized := len(current) > p.chunkSize*2

	for _, next := range pieces[1:] {
		nextHasTable := strings.Contains(next, tableOpenMarker)
		nextOversized := len(next) > p.chunkSize*2
		combined := len(current) + len(next)

		if currentOversized || nextOversized {
			final = append(final, strings.TrimSpace(current))
			current = next
			currentHasTable = nextHasTable
			currentOversized = nextOversized
			continue
		}

		shouldMerge := false
		switch {
		case currentHasTable != nextHasTable:
			// Narrative and tabular content stay separate.
		case len(current) < p.chunkSize/2 && !strings.HasSuffix(strings.TrimSpace(current), tableCloseMarker):
			if combined*2 <= p.chunkSize*3 || len(next) < p.chunkSize/2 {
				shouldMerge = true
			}
		case len(next) < p.chunkSize/4 && !strings.HasPrefix(strings.TrimSpace(next), tableOpenMarker):
			shouldMerge = true
		}

		if shouldMerge {
			current = current + "\n\n" + next
			currentHasTable = currentHasTable || nextHasTable
			currentOversized = len(current) > p.chunkSize*2
			continue
		}

		final = append(final, strings.TrimSpace(current))

		switch {
		case p.overlap > 0 && !currentHasTable && !nextHasTable:
			if len(current) > p.overlap {
				overlap := overlapTail(current, p.overlap)
				// Start the overlap at a sentence boundary when one
				// exists inside the window.
				if idx := strings.Index(overlap, ". "); idx != -1 {
					overlap = overlap[idx+2:]
				}
				current = overlap + "\n\n" + next
			} else {
				current = next
			}
		case p.overlap > 0 &&
			!strings.HasSuffix(strings.TrimSpace(current), tableCloseMarker) &&
			!strings.HasPrefix(strings.TrimSpace(next), tableOpenMarker):
			// A table is involved but not at the junction; a reduced
			// overlap is safe.
			if len(current) > p.overlap {
				limit := p.overlap
				if limit > 100 {
					limit = 100
				}
				current = overlapTail(current, limit) + "\n\n" + next
			} else {
				current = next
			}
		default:
			// Table at the boundary: no overlap at all.
			current = next
		}

		currentHasTable = nextHasTable
		currentOversized = len(current) > p.chunkSize*2
	}

	if !isBlank(current) {
		final = append(final, strings.TrimSpace(current))
	}

	return final
}
