// Package memory provides a brute-force in-memory vector index.
// Suitable for tests and small corpora; every search scans all vectors.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tempora-labs/tempora-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex using
// exact cosine similarity.
type Index struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{
		vectors: make(map[string][]float32),
	}
}

// Add inserts a vector for the given chunk ID, replacing any existing one.
func (i *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.vectors[chunkID] = vec
	return nil
}

// Delete removes a vector from the index.
func (i *Index) Delete(_ context.Context, chunkID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.vectors, chunkID)
	return nil
}

// Search finds the k nearest neighbours by cosine similarity.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(i.vectors))
	for id, vec := range i.vectors {
		sim, ok := cosineSimilarity(query, vec)
		if !ok {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: id, Similarity: sim})
	}

	sort.Slice(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close releases resources (no-op for memory index).
func (i *Index) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Reports false for mismatched dimensions or zero-norm vectors.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
