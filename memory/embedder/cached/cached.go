// Package cached decorates an Embedder with a ristretto cache keyed by
// the input text. One generation embeds the same expanded prompt more
// than once (recall query, then the save into both tiers); the cache
// collapses those into a single provider call.
package cached

import (
	"context"

	"github.com/dgraph-io/ristretto"

	"github.com/openmuse/muse/memory"
)

// Embedder caches the vectors of an inner embedder.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

var _ memory.Embedder = (*Embedder)(nil)

// New wraps inner with a cache bounded at maxBytes of vector data
// (64 MiB when <= 0).
func New(inner memory.Embedder, maxBytes int64) (*Embedder, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, or asks the inner embedder
// and remembers the answer. Provider errors are never cached.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		return v.([]float32), nil
	}
	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, vec, int64(4*len(vec)))
	return vec, nil
}

// Dimensions reports the inner embedder's dimension.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Close releases the cache.
func (e *Embedder) Close() {
	e.cache.Close()
}
