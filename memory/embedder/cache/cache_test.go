package cache_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall-go-sdk/memory"
	"github.com/recallhq/recall-go-sdk/memory/embedder/cache"
)

// countingEmbedder counts delegated calls and can be switched to failing.
type countingEmbedder struct {
	calls int
	fail  bool
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls++
	if c.fail {
		return nil, fmt.Errorf("%w: backend down", memory.ErrUnavailable)
	}
	return []float32{float32(len(text)), 1, 2}, nil
}

func (c *countingEmbedder) Dimensions() int { return 3 }

func TestEmbedCachesSuccesses(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	emb, err := cache.New(inner, cache.Config{})
	require.NoError(t, err)
	defer emb.Close()

	first, err := emb.Embed(ctx, "hello")
	require.NoError(t, err)
	emb.Wait()

	second, err := emb.Embed(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestEmbedDistinctTextsMiss(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	emb, err := cache.New(inner, cache.Config{})
	require.NoError(t, err)
	defer emb.Close()

	_, err = emb.Embed(ctx, "alpha")
	require.NoError(t, err)
	_, err = emb.Embed(ctx, "beta")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestEmbedDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{fail: true}
	emb, err := cache.New(inner, cache.Config{})
	require.NoError(t, err)
	defer emb.Close()

	_, err = emb.Embed(ctx, "hello")
	require.ErrorIs(t, err, memory.ErrUnavailable)
	emb.Wait()

	// The backend recovering must produce a real call, not a cached error.
	inner.fail = false
	vec, err := emb.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
	assert.Equal(t, 2, inner.calls)
}

func TestDimensionsDelegates(t *testing.T) {
	emb, err := cache.New(&countingEmbedder{}, cache.Config{})
	require.NoError(t, err)
	defer emb.Close()

	assert.Equal(t, 3, emb.Dimensions())
}
