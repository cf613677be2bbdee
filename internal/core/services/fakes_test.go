package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
)

// fakeEmbedder returns fixed-size vectors and records the texts it saw.
type fakeEmbedder struct {
	embedded   []string
	batchTexts []string
	embedErr   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.embedded = append(f.embedded, text)
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.batchTexts = append(f.batchTexts, texts...)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return 2 }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// fakeVectorIndex records adds/deletes and serves preset hits.
type fakeVectorIndex struct {
	added   []string
	deleted []string
	hits    []driven.VectorHit
}

func (f *fakeVectorIndex) Add(_ context.Context, chunkID string, _ []float32) error {
	f.added = append(f.added, chunkID)
	return nil
}

func (f *fakeVectorIndex) Delete(_ context.Context, chunkID string) error {
	f.deleted = append(f.deleted, chunkID)
	return nil
}

func (f *fakeVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if len(f.hits) > k {
		return f.hits[:k], nil
	}
	return f.hits, nil
}

func (f *fakeVectorIndex) Close() error { return nil }

// fakeDocStore is an in-memory DocumentStore.
type fakeDocStore struct {
	docs   map[string]domain.Document
	chunks map[string]domain.Chunk
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		docs:   make(map[string]domain.Document),
		chunks: make(map[string]domain.Chunk),
	}
}

func (f *fakeDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeDocStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		f.chunks[c.ID] = c
	}
	return nil
}

func (f *fakeDocStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (f *fakeDocStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for _, c := range f.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeDocStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	c, ok := f.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeDocStore) DeleteDocument(_ context.Context, id string) error {
	delete(f.docs, id)
	for cid, c := range f.chunks {
		if c.DocumentID == id {
			delete(f.chunks, cid)
		}
	}
	return nil
}

func (f *fakeDocStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocStore) Close() error { return nil }

// fakeRegistry normalises any raw document as plain text.
type fakeRegistry struct{}

func (f *fakeRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Filename:  raw.Filename,
			Title:     raw.Filename,
			Content:   string(raw.Content),
			Metadata:  map[string]any{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}, nil
}

func (f *fakeRegistry) Register(_ driven.Normaliser) {}

func (f *fakeRegistry) SupportedMIMETypes() []string { return []string{"text/plain"} }
