// Package mock provides a deterministic embedder for tests: the same text
// always yields the same unit vector, without any model or network.
package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/openmuse/muse/memory"
)

// Embedder generates hash-seeded pseudo-random embeddings. Distinct texts
// map to essentially unrelated directions, so it cannot reproduce real
// semantic similarity, but identity and determinism hold.
type Embedder struct {
	dimensions int
}

var _ memory.Embedder = (*Embedder)(nil)

// New creates a mock embedder with 384 dimensions, matching the default
// Ollama embedding model.
func New() *Embedder {
	return &Embedder{dimensions: 384}
}

// Embed derives a unit vector from the FNV hash of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, e.dimensions)
	for i := range embedding {
		// LCG advance per component, mapped into [-1, 1].
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
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
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
