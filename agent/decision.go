package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/recallhq/recall-go-sdk/memory"
)

// Plan prefixes the planner must use. Anything else is treated as a
// malformed plan.
const (
	planPrefixFunctionCall = "FUNCTION_CALL:"
	planPrefixFinalAnswer  = "FINAL_ANSWER:"
)

const planPrompt = `You are a reasoning-driven AI agent with access to tools. Your job is to solve the user's request step by step.

Available tools:
%s

Relevant memories:
%s

User intent: %s
Tool hint: %s
User input: %s

Respond with exactly ONE line in ONE of these formats:
- FUNCTION_CALL: tool_name|param1=value1|param2=value2
- FINAL_ANSWER: [your answer]

Nested parameters use dotted keys, e.g. input.string=hello. List values use JSON syntax, e.g. input.int_list=[73, 78].
Call one tool at a time. When the task is complete, give the FINAL_ANSWER.`

// plan asks the LLM for the next step given the perception and the
// retrieved memories.
func (r *Runner) plan(ctx context.Context, p Perception, memories []memory.Record) (string, error) {
	raw, err := r.llm.Complete(ctx, "", fmt.Sprintf(planPrompt,
		orNone(r.registry.Describe()),
		orNone(formatMemories(memories)),
		orNone(p.Intent),
		orNone(p.ToolHint),
		p.UserInput,
	))
	if err != nil {
		return "", fmt.Errorf("plan: %w", err)
	}
	return firstPlanLine(raw), nil
}

// firstPlanLine picks the first line carrying a plan prefix, tolerating
// models that preface the plan with commentary.
func firstPlanLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, planPrefixFunctionCall) || strings.HasPrefix(line, planPrefixFinalAnswer) {
			return line
		}
	}
	return strings.TrimSpace(raw)
}

func formatMemories(records []memory.Record) string {
	if len(records) == 0 {
		return ""
	}
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, "- "+rec.Text)
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
