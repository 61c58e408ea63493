// Package cache wraps an embedder with an in-memory embedding cache.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/recallhq/recall-go-sdk/memory"
)

const defaultMaxBytes = 64 << 20

// Config holds cache sizing.
type Config struct {
	// MaxBytes bounds the total cost of cached vectors. Default: 64 MiB.
	MaxBytes int64
}

// Embedder caches successful embeddings of the wrapped embedder, keyed by
// a hash of the input text. Failures are never cached, so backend
// unavailability still surfaces to the caller and the store's degradation
// policy is unaffected.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

// New wraps inner with a ristretto cache.
func New(inner memory.Embedder, cfg Config) (*Embedder, error) {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	return &Embedder{inner: inner, cache: c}, nil
}

// Embed returns a cached vector when available, otherwise delegates to
// the wrapped embedder and caches the result.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := sha256.Sum256([]byte(text))

	if v, ok := e.cache.Get(key[:]); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(key[:], vec, int64(4*len(vec)))
	return vec, nil
}

// Dimensions reports the wrapped embedder's dimension.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Wait blocks until pending cache writes are applied. Useful in tests;
// ristretto applies Set calls asynchronously.
func (e *Embedder) Wait() {
	e.cache.Wait()
}

// Close releases the cache's resources.
func (e *Embedder) Close() {
	e.cache.Close()
}
