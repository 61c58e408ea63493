// Package ollama provides an embedder backed by a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/recallhq/recall-go-sdk/memory"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"

	embeddingsPath = "/api/embeddings"
)

// Config holds Ollama embedder configuration.
type Config struct {
	// BaseURL is the Ollama server address. Default: http://localhost:11434.
	BaseURL string

	// Model is the embedding model name. Default: nomic-embed-text.
	Model string

	// HTTPClient overrides the default client. Request deadlines come from
	// the caller's context, so the default client carries no timeout.
	HTTPClient *http.Client
}

// Embedder calls an Ollama server's embeddings API.
type Embedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates an Ollama embedder.
func New(cfg Config) *Embedder {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Embedder{
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed requests one embedding from the server. Transport failures,
// timeouts, and server errors are reported as memory.ErrUnavailable;
// client errors as memory.ErrInvalidInput.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("ollama: %w: text must be non-empty", memory.ErrInvalidInput)
	}

	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+embeddingsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		// Connection refused, DNS failure, context deadline: the service
		// cannot be reached.
		return nil, fmt.Errorf("ollama: %w: %v", memory.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("ollama: %w: status %d: %s", memory.ErrUnavailable, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("ollama: %w: status %d: %s", memory.ErrInvalidInput, resp.StatusCode, msg)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama: %w: decode response: %v", memory.ErrUnavailable, err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: %w: server returned empty embedding", memory.ErrUnavailable)
	}

	return out.Embedding, nil
}

// Dimensions returns 0: Ollama does not report the model's embedding size
// up front, so it is only known after the first successful call.
func (e *Embedder) Dimensions() int {
	return 0
}
