// Package enhancer prepends temporal context to chunk content so
// embeddings carry the document's temporal signals. It runs after the
// chunker in the post-processing pipeline.
package enhancer

import (
	"context"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/temporal"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor enriches chunk text with a temporal context prefix.
type Processor struct {
	extractor *temporal.Extractor
}

// Option configures the Processor.
type Option func(*Processor)

// WithExtractor sets the temporal extractor to use.
func WithExtractor(e *temporal.Extractor) Option {
	return func(p *Processor) {
		p.extractor = e
	}
}

// New creates a new temporal enhancement processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		extractor: temporal.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "temporal"
}

// Process rewrites each chunk's content with a [TEMPORAL_CONTEXT: ...]
// prefix. Document-level dates from metadata flow into every chunk so
// chunks without inline dates still embed near temporally similar text.
// Chunks with no temporal signal pass through unchanged.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return chunks, nil
	}

	meta := map[string]any{}
	if doc.Metadata != nil {
		if v, ok := doc.Metadata["document_date"]; ok {
			meta["document_date"] = v
		}
	}
	if !doc.CreatedAt.IsZero() {
		meta["created_at"] = doc.CreatedAt.Format("2006-01-02")
	}

	for i := range chunks {
		chunks[i].Content = p.extractor.EnhanceTextWithTemporalContext(chunks[i].Content, meta)
	}

	return chunks, nil
}
