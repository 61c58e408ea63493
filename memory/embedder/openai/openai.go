// Package openai provides an embedder backed by the OpenAI embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/recallhq/recall-go-sdk/memory"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "text-embedding-3-small"

// Config holds OpenAI embedder configuration.
type Config struct {
	// APIKey authenticates against the API. Falls back to the SDK's
	// OPENAI_API_KEY handling when empty.
	APIKey string

	// Model is the embedding model name. Default: text-embedding-3-small.
	Model string

	// BaseURL overrides the API endpoint, e.g. for a compatible proxy.
	BaseURL string
}

// Embedder calls the OpenAI embeddings API.
type Embedder struct {
	client     openai.Client
	model      string
	dimensions int
}

// New creates an OpenAI embedder.
func New(cfg Config) *Embedder {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Embedder{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: dimensionsFor(model),
	}
}

func dimensionsFor(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	}
	return 0
}

// Embed requests one embedding. API client errors (4xx) are reported as
// memory.ErrInvalidInput; everything else as memory.ErrUnavailable.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("openai: %w: text must be non-empty", memory.ErrInvalidInput)
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("openai: %w: %v", memory.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("openai: %w: %v", memory.ErrUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai: %w: API returned empty embedding", memory.ErrUnavailable)
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions returns the known embedding size for the configured model,
// or 0 for models whose size is not known up front.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}
