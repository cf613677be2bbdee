// Package chunker provides a table-aware hierarchical text chunking
// processor. Table blocks delimited by [TABLE n]...[END TABLE] sentinels
// are treated as atomic units and never split across chunk boundaries.
package chunker

import (
	"context"
	"fmt"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/logger"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// defaultSeparators are tried in order, from coarse structural breaks
// down to a character-level fallback.
var defaultSeparators = []string{
	"\n## ",
	"\n### ",
	"\n#### ",
	"\n\n\n",
	"\n\n",
	"\n- ",
	"\n* ",
	"\n",
	". ",
	"! ",
	"? ",
	"; ",
	", ",
	" ",
	"",
}

// Processor splits document content into chunks while keeping table
// blocks intact. It implements the PostProcessor interface and is
// stateless apart from configuration, so it is safe for concurrent use.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators []string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Input chunks are
// ignored; this processor creates new chunks from document content.
// Paginated documents are chunked page by page so chunks never cross
// page boundaries.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if len(doc.PageTexts) > 0 {
		return p.ChunkPages(doc.PageTexts, doc.Metadata, doc.ID), nil
	}
	return p.ChunkText(doc.Content, doc.Metadata, doc.ID), nil
}

// ChunkText splits text into chunks with metadata and quality scores.
// Every chunk receives its own copy of the document metadata plus
// chunk-local fields. Blank input produces no chunks.
func (p *Processor) ChunkText(text string, metadata map[string]any, documentID string) []domain.Chunk {
	if isBlank(text) {
		return nil
	}

	tables := p.ExtractTableBlocks(text)
	pieces := p.SplitTextTableAware(text, tables)

	logger.Info("Split document into %d chunks (chunk_size=%d, overlap=%d)",
		len(pieces), p.chunkSize, p.overlap)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, content := range pieces {
		quality := p.ChunkQuality(content)

		md := domain.CopyMetadata(metadata)
		md["chunk_index"] = i
		md["total_chunks"] = len(pieces)
		md["chunk_size"] = len(content)
		md["is_first_chunk"] = i == 0
		md["is_last_chunk"] = i == len(pieces)-1
		addQualityFields(md, quality)

		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(documentID, i),
			DocumentID: documentID,
			Content:    content,
			Position:   i,
			Metadata:   md,
		})
	}

	return chunks
}

// ChunkPages chunks paginated content page by page, skipping blank
// pages. A running chunk_index spans the whole document; page_number is
// 1-indexed. total_chunks is back-filled once every page is processed.
func (p *Processor) ChunkPages(pageTexts []string, metadata map[string]any, documentID string) []domain.Chunk {
	var chunks []domain.Chunk
	chunkIndex := 0

	for pageNum, pageText := range pageTexts {
		if isBlank(pageText) {
			continue
		}

		tables := p.ExtractTableBlocks(pageText)
		pieces := p.SplitTextTableAware(pageText, tables)

		for i, content := range pieces {
			quality := p.ChunkQuality(content)

			md := domain.CopyMetadata(metadata)
			md["page_number"] = pageNum + 1
			md["chunk_index"] = chunkIndex
			md["chunk_size"] = len(content)
			md["page_chunk_index"] = i
			md["chunks_in_page"] = len(pieces)
			addQualityFields(md, quality)

			chunks = append(chunks, domain.Chunk{
				ID:         pageChunkID(documentID, pageNum+1, i),
				DocumentID: documentID,
				Content:    content,
				Position:   chunkIndex,
				Metadata:   md,
			})
			chunkIndex++
		}
	}

	for i := range chunks {
		chunks[i].Metadata["total_chunks"] = len(chunks)
	}

	logger.Info("Created %d chunks from %d pages", len(chunks), len(pageTexts))

	return chunks
}

func addQualityFields(md map[string]any, q QualityMetrics) {
	md["quality_score"] = q.QualityScore
	md["sentence_count"] = q.SentenceCount
	md["word_count"] = q.WordCount
	md["has_table"] = q.HasTable
	md["table_count"] = q.TableCount
	md["has_complete_table"] = q.HasCompleteTable
}

func chunkID(documentID string, i int) string {
	if documentID == "" {
		return fmt.Sprintf("chunk_%d", i)
	}
	return fmt.Sprintf("%s_chunk_%d", documentID, i)
}

func pageChunkID(documentID string, page, i int) string {
	if documentID == "" {
		return fmt.Sprintf("page%d_chunk%d", page, i)
	}
	return fmt.Sprintf("%s_page%d_chunk%d", documentID, page, i)
}
