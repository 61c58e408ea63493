package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultModel is the model used when ClaudeConfig.Model is empty.
const DefaultModel = "claude-sonnet-4-20250514"

const defaultMaxTokens = 1024

// LLM generates a completion for a prompt. The agent uses it for both
// perception and planning.
type LLM interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Claude implements LLM over the Anthropic Messages API.
type Claude struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// ClaudeConfig configures a Claude LLM.
type ClaudeConfig struct {
	// Model is the model identifier. Defaults to DefaultModel.
	Model string

	// MaxTokens caps the response length. Defaults to 1024.
	MaxTokens int64
}

// NewClaude wraps an Anthropic client as an LLM.
func NewClaude(client *anthropic.Client, cfg ClaudeConfig) *Claude {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Claude{client: client, model: cfg.Model, maxTokens: cfg.MaxTokens}
}

// Complete sends one user message and returns the concatenated text blocks
// of the response.
func (c *Claude) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude completion: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
