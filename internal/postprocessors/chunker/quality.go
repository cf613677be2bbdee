package chunker

import (
	"math"
	"strings"
)

// QualityMetrics describes how well formed a chunk is. QualityScore is
// in [0, 1]; the remaining fields are the raw measurements behind it.
type QualityMetrics struct {
	CharCount         int
	WordCount         int
	SentenceCount     int
	AvgWordLength     float64
	AvgSentenceLength float64
	EndsComplete      bool
	StartsProper      bool
	SizeVariance      float64
	QualityScore      float64
	HasTable          bool
	TableCount        int
	HasCompleteTable  bool
}

// ChunkQuality computes quality metrics for one chunk. Prose and
// table-bearing chunks are judged by different rules: boundary and size
// heuristics that are reasonable for prose are wrong for tabular data,
// which is legitimately large and not sentence-shaped.
func (p *Processor) ChunkQuality(chunk string) QualityMetrics {
	trimmed := strings.TrimSpace(chunk)
	if trimmed == "" {
		return QualityMetrics{CharCount: len(chunk), SizeVariance: 1.0}
	}

	hasTable := strings.Contains(chunk, tableOpenMarker)
	tableCount := strings.Count(chunk, tableOpenMarker)
	hasCompleteTable := hasTable && strings.Contains(chunk, tableCloseMarker)

	charCount := len(chunk)
	wordCount := len(strings.Fields(chunk))

	var sentenceCount int
	if hasTable {
		// Sentence analysis applies to the prose around the table only.
		textOnly := tableBlockRe.ReplaceAllString(chunk, "")
		if !isBlank(textOnly) {
			sentenceCount = len(SplitIntoSentences(textOnly))
		}
	} else {
		sentenceCount = len(SplitIntoSentences(chunk))
	}

	endsComplete := strings.ContainsRune(".!?;", rune(trimmed[len(trimmed)-1]))
	startsProper := trimmed[0] >= 'A' && trimmed[0] <= 'Z'

	var avgWordLength, avgSentenceLength float64
	if wordCount > 0 {
		avgWordLength = float64(charCount) / float64(wordCount)
	}
	if sentenceCount > 0 {
		avgSentenceLength = float64(wordCount) / float64(sentenceCount)
	}

	var sizeVariance float64
	if p.chunkSize > 0 {
		sizeVariance = math.Abs(float64(charCount)-float64(p.chunkSize)) / float64(p.chunkSize)
	}

	score := 1.0
	if hasTable {
		if !hasCompleteTable {
			// Table broken across chunks.
			score -= 0.3
		}
		if sentenceCount == 0 && !hasCompleteTable {
			score -= 0.2
		} else if sentenceCount > 0 {
			// Prose context around the table.
			score += 0.1
		}
		// Tables are allowed to be large; the variance penalty only
		// kicks in well past the target size.
		if sizeVariance > 2.0 {
			score -= 0.3
		} else if sizeVariance > 1.0 {
			score -= 0.15
		}
	} else {
		if !endsComplete {
			score -= 0.2
		}
		if !startsProper {
			score -= 0.1
		}
		if sizeVariance > 0.5 {
			score -= 0.2
		}
		if sentenceCount == 0 {
			score -= 0.3
		}
	}

	return QualityMetrics{
		CharCount:         charCount,
		WordCount:         wordCount,
		SentenceCount:     sentenceCount,
		AvgWordLength:     round2(avgWordLength),
		AvgSentenceLength: round2(avgSentenceLength),
		EndsComplete:      endsComplete,
		StartsProper:      startsProper,
		SizeVariance:      round3(sizeVariance),
		QualityScore:      round2(clamp01(score)),
		HasTable:          hasTable,
		TableCount:        tableCount,
		HasCompleteTable:  hasCompleteTable,
	}
}

// SplitIntoSentences splits text on sentence-ending punctuation
// followed by whitespace, suppressing false boundaries after initials
// ("J. Smith"), short abbreviations ("Dr.") and dotted acronyms
// ("U.S."). Decimal numbers never trigger a boundary because the digit
// after the period is not whitespace.
func SplitIntoSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 >= len(text) || !isSpaceByte(text[i+1]) {
			continue
		}
		if c == '.' && isAbbreviationDot(text, i) {
			continue
		}

		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}

		j := i + 1
		for j < len(text) && isSpaceByte(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// isAbbreviationDot reports whether the period at index i looks like an
// abbreviation rather than a sentence terminator.
func isAbbreviationDot(text string, i int) bool {
	if i >= 1 && isUpperByte(text[i-1]) {
		return true
	}
	if i >= 2 && isUpperByte(text[i-2]) && isLowerByte(text[i-1]) {
		return true
	}
	if i >= 3 && isWordByte(text[i-3]) && text[i-2] == '.' && isWordByte(text[i-1]) {
		return true
	}
	return false
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isUpperByte(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLowerByte(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isWordByte(c byte) bool {
	return isUpperByte(c) || isLowerByte(c) || (c >= '0' && c <= '9') || c == '_'
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
