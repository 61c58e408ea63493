// Package agent implements a bounded perception, decision, action loop on
// top of the memory store: each step reads the input, recalls relevant
// memories, plans one tool call or a final answer, and records tool
// results back into memory for later steps.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recallhq/recall-go-sdk/memory"
	"github.com/recallhq/recall-go-sdk/tools"
)

const defaultMaxSteps = 3

const defaultRecallTopK = 3

// Config configures a Runner.
type Config struct {
	// LLM drives perception and planning. Required.
	LLM LLM

	// Registry holds the tools the planner may call. Required.
	Registry *tools.Registry

	// Store records and recalls the run's working memory. Required.
	Store *memory.Store

	// Logger receives loop diagnostics. Defaults to a disabled logger.
	Logger zerolog.Logger

	// MaxSteps bounds the loop. Defaults to 3.
	MaxSteps int
}

// Runner executes the agent loop.
type Runner struct {
	llm      LLM
	registry *tools.Registry
	store    *memory.Store
	logger   zerolog.Logger
	maxSteps int
}

// New creates a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.LLM == nil {
		return nil, errors.New("agent: Config.LLM is required")
	}
	if cfg.Registry == nil {
		return nil, errors.New("agent: Config.Registry is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("agent: Config.Store is required")
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = defaultMaxSteps
	}
	return &Runner{
		llm:      cfg.LLM,
		registry: cfg.Registry,
		store:    cfg.Store,
		logger:   cfg.Logger,
		maxSteps: cfg.MaxSteps,
	}, nil
}

// Result is the outcome of a run.
type Result struct {
	// Answer is the final answer text, empty when the step budget ran out.
	Answer string

	// Steps is the number of loop iterations executed.
	Steps int

	// Completed reports whether a final answer was reached within the
	// step budget.
	Completed bool

	// SessionID identifies the memories this run produced.
	SessionID string
}

// Run executes the loop for one user request. Each iteration perceives the
// current input, recalls up to three session memories, asks the planner
// for the next step, and either returns the final answer or executes the
// planned tool call and feeds its output into the next iteration.
func (r *Runner) Run(ctx context.Context, userInput string) (*Result, error) {
	if userInput == "" {
		return nil, errors.New("agent: empty input")
	}

	sessionID := "session-" + uuid.New().String()
	logger := r.logger.With().Str("session_id", sessionID).Logger()
	logger.Info().Str("input", userInput).Msg("starting agent loop")

	r.remember(ctx, logger, memory.Record{
		Text:      userInput,
		Kind:      memory.KindQuery,
		SessionID: sessionID,
	})

	input := userInput
	for step := 1; step <= r.maxSteps; step++ {
		logger.Info().Int("step", step).Msg("loop iteration")

		p := r.perceive(ctx, input)
		logger.Debug().
			Str("intent", p.Intent).
			Strs("entities", p.Entities).
			Str("tool_hint", p.ToolHint).
			Msg("perceived input")

		recalled, err := r.store.Retrieve(ctx, memory.Query{
			Text:      input,
			TopK:      defaultRecallTopK,
			SessionID: sessionID,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("memory retrieval failed, planning without recall")
			recalled = nil
		}

		plan, err := r.plan(ctx, p, recalled)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("plan", plan).Msg("planned next step")

		if answer, ok := cutFinalAnswer(plan); ok {
			return &Result{Answer: answer, Steps: step, Completed: true, SessionID: sessionID}, nil
		}

		output, toolName, err := r.act(ctx, logger, plan, input, sessionID)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("tool", toolName).Str("output", output).Msg("executed tool")

		input = fmt.Sprintf("Original task: %s\nPrevious output: %s\nWhat should I do next?", userInput, output)
	}

	logger.Warn().Int("max_steps", r.maxSteps).Msg("step budget exhausted without a final answer")
	return &Result{Steps: r.maxSteps, SessionID: sessionID}, nil
}

// act parses and executes a FUNCTION_CALL plan, then records the tool
// output so later iterations can recall it.
func (r *Runner) act(ctx context.Context, logger zerolog.Logger, plan, input, sessionID string) (output, toolName string, err error) {
	name, args, err := ParseFunctionCall(plan)
	if err != nil {
		return "", "", err
	}
	tool, ok := r.registry.Get(name)
	if !ok {
		return "", "", fmt.Errorf("unknown tool %q", name)
	}

	output, err = tool.Execute(ctx, args)
	if err != nil {
		return "", "", fmt.Errorf("tool %s: %w", name, err)
	}

	argsJSON, _ := json.Marshal(args)
	r.remember(ctx, logger, memory.Record{
		Text:        fmt.Sprintf("Tool call: %s with %s, got: %s", name, argsJSON, output),
		Kind:        memory.KindToolOutput,
		SourceTool:  name,
		OriginQuery: input,
		Tags:        []string{name},
		SessionID:   sessionID,
	})
	return output, name, nil
}

// remember stores a record, tolerating memory failures: a degraded or
// erroring store must not abort the loop.
func (r *Runner) remember(ctx context.Context, logger zerolog.Logger, rec memory.Record) {
	if err := r.store.Add(ctx, rec); err != nil {
		logger.Warn().Err(err).Str("kind", string(rec.Kind)).Msg("failed to store memory")
	}
}

func cutFinalAnswer(plan string) (string, bool) {
	answer, ok := strings.CutPrefix(plan, planPrefixFinalAnswer)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(answer), true
}
