package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driving"
	"github.com/tempora-labs/tempora-cli/internal/logger"
	"github.com/tempora-labs/tempora-cli/internal/temporal"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService normalises, chunks, embeds and stores documents.
type IngestService struct {
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	extractor   *temporal.Extractor
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithIngestExtractor overrides the default temporal extractor.
func WithIngestExtractor(e *temporal.Extractor) IngestOption {
	return func(s *IngestService) {
		s.extractor = e
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		normalisers: normalisers,
		pipeline:    pipeline,
		embedder:    embedder,
		docStore:    docStore,
		vectorIndex: vectorIndex,
		extractor:   temporal.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest runs one raw document through the full pipeline:
// normalise, resolve the document date, chunk, enhance, embed, store
// and index. The resolved date lands in document metadata as
// document_date and is inherited by every chunk.
func (s *IngestService) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Ingest")
	logger.Debug("URI: %s, MIME: %s, %d bytes", raw.URI, raw.MIMEType, len(raw.Content))

	result, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	doc := result.Document

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	if date := s.resolveDocumentDate(raw, doc.Filename); date != "" {
		doc.Metadata["document_date"] = date
	}
	doc.Metadata["uploaded_at"] = time.Now().UTC().Format(time.RFC3339)

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("process document: %w", err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}
		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(embeddings), len(chunks))
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}
	for _, chunk := range chunks {
		if err := s.vectorIndex.Add(ctx, chunk.ID, chunk.Embedding); err != nil {
			return nil, fmt.Errorf("index chunk %s: %w", chunk.ID, err)
		}
	}

	logger.Info("Ingested %s: %d chunks", doc.Filename, len(chunks))
	return &doc, nil
}

// resolveDocumentDate picks the document date. An explicit caller date
// always wins over filename extraction.
func (s *IngestService) resolveDocumentDate(raw *domain.RawDocument, filename string) string {
	if raw.DocumentDate != "" {
		if normalized, ok := s.extractor.NormalizeDate(raw.DocumentDate); ok {
			return normalized
		}
		return raw.DocumentDate
	}

	if date, ok := s.extractor.ExtractDateFromFilename(filename); ok {
		logger.Debug("Extracted date from filename %q: %s", filename, date)
		return date
	}
	return ""
}

// Delete removes a document, its chunks and its vectors.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}

	if s.vectorIndex != nil {
		for _, chunk := range chunks {
			if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
				logger.Warn("Failed to remove vector for chunk %s: %v", chunk.ID, err)
			}
		}
	}

	return s.docStore.DeleteDocument(ctx, documentID)
}

// List returns all stored documents.
func (s *IngestService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *IngestService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}
