// Package mock provides a deterministic embedder for tests and examples.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

const defaultDimensions = 384

// Embedder generates deterministic embeddings from a text hash. Identical
// texts always produce identical vectors, so store/index plumbing can be
// exercised without a real model, but the vectors carry no semantic
// similarity.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with the default dimension (384, matching
// all-MiniLM-L6-v2).
func New() *Embedder {
	return NewWithDimensions(defaultDimensions)
}

// NewWithDimensions creates a mock embedder producing vectors of the
// given size.
func NewWithDimensions(dims int) *Embedder {
	return &Embedder{dimensions: dims}
}

// Embed derives a unit vector from the FNV hash of text.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		// LCG keyed on the text hash.
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
