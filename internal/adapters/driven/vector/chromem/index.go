// Package chromem provides a persistent vector index backed by
// chromem-go.
package chromem

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
)

const collectionName = "chunks"

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a chromem-go backed implementation of driven.VectorIndex.
// Embeddings are always supplied by the caller, so no embedding
// function is wired into the collection.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewIndex creates a vector index persisted under dataDir. An empty
// dataDir yields an in-memory index.
func NewIndex(dataDir string) (*Index, error) {
	var db *chromem.DB
	var err error

	if dataDir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dataDir, false)
		if err != nil {
			return nil, fmt.Errorf("open vector db: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: col,
	}, nil
}

// Add inserts a vector for the given chunk ID.
func (i *Index) Add(ctx context.Context, chunkID string, embedding []float32) error {
	doc := chromem.Document{
		ID:        chunkID,
		Content:   chunkID,
		Embedding: embedding,
	}
	if err := i.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add vector %s: %w", chunkID, err)
	}
	return nil
}

// Delete removes a vector from the index.
func (i *Index) Delete(ctx context.Context, chunkID string) error {
	if err := i.collection.Delete(ctx, nil, nil, chunkID); err != nil {
		return fmt.Errorf("delete vector %s: %w", chunkID, err)
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	count := i.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := i.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	hits := make([]driven.VectorHit, len(results))
	for n, r := range results {
		hits[n] = driven.VectorHit{
			ChunkID:    r.ID,
			Similarity: float64(r.Similarity),
		}
	}
	return hits, nil
}

// Close releases resources. The persistent database writes through on
// every mutation, so there is nothing to flush.
func (i *Index) Close() error {
	return nil
}
