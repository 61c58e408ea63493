package memory

import (
	"context"
)

// Embedder converts text to vector embeddings.
// Implementations: ollama.Embedder (local server), openai.Embedder
// (API-based), mock.Embedder (testing).
//
// Embed must return an error matching ErrUnavailable (via errors.Is) when
// the backend cannot be reached or times out, and ErrInvalidInput for
// malformed input. The Store's degraded-mode policy reacts specifically to
// unavailability.
type Embedder interface {
	// Embed converts a single text to an embedding vector. The vector
	// dimension is fixed for a given configured model.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size, or 0 when it is only
	// known after the first call.
	Dimensions() int
}

// Hit is one nearest-neighbor search result.
type Hit struct {
	// Row is the position assigned to the vector at insertion time,
	// counting from 0 in insertion order.
	Row int

	// Distance is the vector distance to the query under the index's
	// metric. Smaller is closer.
	Distance float32
}

// Index stores vectors of one fixed dimension and answers
// nearest-neighbor queries.
// Implementations: chromem.Index (embedded vector database).
type Index interface {
	// Add appends one vector and returns its row id. Row ids increase
	// monotonically from 0 and are stable across searches.
	Add(ctx context.Context, vec []float32) (int, error)

	// Search returns up to k nearest neighbors ordered by ascending
	// distance under one fixed metric.
	Search(ctx context.Context, vec []float32, k int) ([]Hit, error)

	// Dimensions returns the vector dimension the index was created with.
	Dimensions() int
}

// IndexFactory allocates an empty index for vectors of the given
// dimension. The Store calls it once, lazily, when the first embedding
// succeeds and its length becomes known.
type IndexFactory func(dim int) (Index, error)
