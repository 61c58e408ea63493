// Package tools provides the tool registry and builtin tools available to
// the agent loop.
package tools

import (
	"context"
	"fmt"
	"strings"
)

// Tool is one callable capability exposed to the agent.
type Tool interface {
	// Name is the identifier the planner uses in FUNCTION_CALL plans.
	Name() string

	// Description is a one-line summary injected into planning prompts.
	Description() string

	// Execute runs the tool. Arguments arrive as decoded plan parameters:
	// numbers as float64, lists as []any, nested keys as nested maps.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Registry holds tools by name, preserving registration order for
// prompt-facing listings.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a registry with the given tools.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any existing tool of the same name.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Describe returns a "- name: description" line per tool, in registration
// order, for injection into planning prompts.
func (r *Registry) Describe() string {
	lines := make([]string, 0, len(r.order))
	for _, name := range r.order {
		lines = append(lines, fmt.Sprintf("- %s: %s", name, r.tools[name].Description()))
	}
	return strings.Join(lines, "\n")
}

// FuncTool adapts a plain function into a Tool.
type FuncTool struct {
	name        string
	description string
	fn          func(ctx context.Context, args map[string]any) (string, error)
}

// NewFuncTool creates a tool from a function.
func NewFuncTool(name, description string, fn func(ctx context.Context, args map[string]any) (string, error)) *FuncTool {
	return &FuncTool{name: name, description: description, fn: fn}
}

func (t *FuncTool) Name() string        { return t.name }
func (t *FuncTool) Description() string { return t.description }

func (t *FuncTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return t.fn(ctx, args)
}
