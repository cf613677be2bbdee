package domain

import "time"

// Document represents an ingested document with metadata.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Filename is the base name the document was ingested under.
	// Date extraction runs against this field.
	Filename string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation,
	// including [TABLE n]...[END TABLE] sentinel blocks for any
	// tables the normaliser detected.
	Content string

	// PageTexts holds per-page text for paginated formats.
	// Empty for single-body documents.
	PageTexts []string

	// Metadata contains document-level key-value pairs. Every key
	// is inherited verbatim by all chunks of this document.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents an embeddable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk,
	// e.g. "{docID}_chunk_{i}" or "{docID}_page{p}_chunk{i}".
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata contains the full copy of the parent document's
	// metadata plus chunk-local fields (chunk_index, total_chunks,
	// chunk_size, quality_score, table flags, page info).
	Metadata map[string]any
}

// CopyMetadata returns a shallow copy of a metadata map.
// Chunks receive copies, never shared references, so the
// per-document consistency invariant holds by construction.
func CopyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
