// Package chromem implements the memory.Index contract over chromem-go,
// a pure Go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/recallhq/recall-go-sdk/memory"
)

// Index stores vectors of one fixed dimension in a chromem collection.
// Row ids are assigned at insertion time, counting from 0, and double as
// chromem document ids. Distances are cosine distances (1 - similarity).
type Index struct {
	mu   sync.Mutex
	col  *chromem.Collection
	dim  int
	rows int
}

// New allocates an empty index for vectors of the given dimension.
func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("chromem: dimension must be positive, got %d", dim)
	}

	db := chromem.NewDB()

	// Embeddings are always supplied by the caller, so neither an
	// embedding function nor a custom distance function is configured.
	col, err := db.CreateCollection("vectors", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: create collection: %w", err)
	}

	return &Index{col: col, dim: dim}, nil
}

// Factory adapts New to the memory.IndexFactory signature.
func Factory(dim int) (memory.Index, error) {
	return New(dim)
}

// Add appends one vector and returns its row id.
func (x *Index) Add(ctx context.Context, vec []float32) (int, error) {
	if len(vec) != x.dim {
		return 0, fmt.Errorf("chromem: vector has dimension %d, index has %d", len(vec), x.dim)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	row := x.rows
	err := x.col.AddDocument(ctx, chromem.Document{
		ID:        strconv.Itoa(row),
		Embedding: vec,
	})
	if err != nil {
		return 0, fmt.Errorf("chromem: add document: %w", err)
	}

	x.rows++
	return row, nil
}

// Search returns up to k nearest neighbors by ascending cosine distance,
// ties broken by ascending row id. Searching an empty index returns no
// hits and no error.
func (x *Index) Search(ctx context.Context, vec []float32, k int) ([]memory.Hit, error) {
	if len(vec) != x.dim {
		return nil, fmt.Errorf("chromem: query has dimension %d, index has %d", len(vec), x.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("chromem: k must be positive, got %d", k)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.rows == 0 {
		return nil, nil
	}
	// chromem rejects nResults larger than the collection size.
	if k > x.rows {
		k = x.rows
	}

	results, err := x.col.QueryEmbedding(ctx, vec, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	hits := make([]memory.Hit, 0, len(results))
	for _, r := range results {
		row, err := strconv.Atoi(r.ID)
		if err != nil {
			return nil, fmt.Errorf("chromem: non-numeric document id %q", r.ID)
		}
		hits = append(hits, memory.Hit{Row: row, Distance: 1 - r.Similarity})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Row < hits[j].Row
	})

	return hits, nil
}

// Dimensions returns the vector dimension the index was created with.
func (x *Index) Dimensions() int {
	return x.dim
}
