package driving

import (
	"context"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

// IngestService turns raw documents into stored, embedded chunks.
type IngestService interface {
	// Ingest normalises, chunks, embeds and stores one raw document.
	// The resolved document date (explicit input beats filename
	// extraction) lands in the document metadata as document_date.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Delete removes a document, its chunks and its vectors.
	Delete(ctx context.Context, documentID string) error

	// List returns all stored documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)
}
