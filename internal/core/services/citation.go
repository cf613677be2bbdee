package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

// buildCitation assembles the attribution details for one query hit.
// The clickable link prefers original_file_url, then source_url, then
// the document URI.
func buildCitation(doc *domain.Document, chunk *domain.Chunk, score float64) domain.Citation {
	title := doc.Title
	if title == "" {
		title = doc.ID
	}

	c := domain.Citation{
		DocumentID:     doc.ID,
		Title:          title,
		Score:          round4(score),
		PageNumber:     metadataInt(chunk.Metadata, "page_number", 0),
		ChunkIndex:     metadataInt(chunk.Metadata, "chunk_index", 0),
		PageChunkIndex: metadataInt(chunk.Metadata, "page_chunk_index", -1),
		QualityScore:   metadataFloat(chunk.Metadata, "quality_score"),
		Link:           citationLink(doc, chunk),
		Date:           documentDate(doc, chunk),
	}
	c.Formatted = formatCitation(c, doc)
	return c
}

// formatCitation renders the pipe-separated display string, e.g.
// "Q3 Report (Page 2, Chunk 1) | Date: 2024-08-27 | Relevance: 0.8231".
func formatCitation(c domain.Citation, doc *domain.Document) string {
	titlePart := c.Title

	var location []string
	if c.PageNumber > 0 {
		location = append(location, fmt.Sprintf("Page %d", c.PageNumber))
	}
	if c.PageChunkIndex >= 0 {
		location = append(location, fmt.Sprintf("Chunk %d", c.PageChunkIndex))
	} else {
		location = append(location, fmt.Sprintf("Chunk %d", c.ChunkIndex))
	}
	if len(location) > 0 {
		titlePart += " (" + strings.Join(location, ", ") + ")"
	}

	parts := []string{titlePart}
	if c.Date != "" {
		parts = append(parts, "Date: "+c.Date)
	}
	parts = append(parts, "Relevance: "+strconv.FormatFloat(c.Score, 'g', -1, 64))
	if doc.Filename != "" {
		parts = append(parts, "Source: "+doc.Filename)
	}

	return strings.Join(parts, " | ")
}

func citationLink(doc *domain.Document, chunk *domain.Chunk) string {
	for _, meta := range []map[string]any{chunk.Metadata, doc.Metadata} {
		if v := metadataString(meta, "original_file_url"); v != "" {
			return v
		}
	}
	for _, meta := range []map[string]any{chunk.Metadata, doc.Metadata} {
		if v := metadataString(meta, "source_url"); v != "" {
			return v
		}
	}
	return doc.URI
}

func documentDate(doc *domain.Document, chunk *domain.Chunk) string {
	if v := metadataString(chunk.Metadata, "document_date"); v != "" {
		return v
	}
	return metadataString(doc.Metadata, "document_date")
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// metadataInt fetches a metadata value as an int, tolerating the
// numeric types produced by JSON and TOML decoding.
func metadataInt(metadata map[string]any, key string, def int) int {
	if metadata == nil {
		return def
	}
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func metadataFloat(metadata map[string]any, key string) float64 {
	if metadata == nil {
		return 0
	}
	switch v := metadata[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}
