package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall-go-sdk/memory"
	"github.com/recallhq/recall-go-sdk/memory/embedder/mock"
	"github.com/recallhq/recall-go-sdk/memory/index/chromem"
	"github.com/recallhq/recall-go-sdk/tools"
)

// scriptedLLM replays canned responses in order. The loop alternates
// perception and planning calls, so a run of N steps consumes 2N entries.
type scriptedLLM struct {
	responses []string
	prompts   []string
}

func (s *scriptedLLM) Complete(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.responses) == 0 {
		return "", assert.AnError
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.New(memory.Config{
		Embedder: mock.NewWithDimensions(8),
		NewIndex: chromem.Factory,
	})
	require.NoError(t, err)
	return store
}

func TestRunReachesFinalAnswer(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"intent": "add numbers", "entities": ["5", "3"], "tool_hint": "add"}`,
		"FUNCTION_CALL: add|a=5|b=3",
		`{"intent": "report result", "entities": ["8"], "tool_hint": null}`,
		"FINAL_ANSWER: [8]",
	}}
	store := newTestStore(t)

	runner, err := New(Config{
		LLM:      llm,
		Registry: tools.NewRegistry(tools.Builtin()...),
		Store:    store,
	})
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), "What is 5 plus 3?")
	require.NoError(t, err)
	assert.Equal(t, "[8]", result.Answer)
	assert.Equal(t, 2, result.Steps)
	assert.True(t, result.Completed)
	assert.NotEmpty(t, result.SessionID)

	// The run leaves the query and the tool output behind as memories.
	status := store.Status()
	assert.Equal(t, 2, status.Records)

	recalled, err := store.Retrieve(context.Background(), memory.Query{
		Text:      "add",
		TopK:      5,
		Kind:      memory.KindToolOutput,
		SessionID: result.SessionID,
	})
	require.NoError(t, err)
	require.Len(t, recalled, 1)
	assert.Equal(t, `Tool call: add with {"a":5,"b":3}, got: 8`, recalled[0].Text)
	assert.Equal(t, "add", recalled[0].SourceTool)
	assert.Equal(t, []string{"add"}, recalled[0].Tags)
}

func TestRunFeedsToolOutputForward(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"intent": "convert", "entities": ["hi"], "tool_hint": null}`,
		"FUNCTION_CALL: strings_to_chars_to_int|input.string=hi",
		`{"intent": "done", "entities": [], "tool_hint": null}`,
		"FINAL_ANSWER: [104, 105]",
	}}

	runner, err := New(Config{
		LLM:      llm,
		Registry: tools.NewRegistry(tools.Builtin()...),
		Store:    newTestStore(t),
	})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "character codes of hi")
	require.NoError(t, err)

	// The second perception prompt carries the first tool's output.
	require.Len(t, llm.prompts, 4)
	assert.Contains(t, llm.prompts[2], "Previous output: [104, 105]")
	assert.Contains(t, llm.prompts[2], "Original task: character codes of hi")
}

func TestRunExhaustsStepBudget(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"intent": "add", "entities": [], "tool_hint": "add"}`,
		"FUNCTION_CALL: add|a=1|b=1",
		`{"intent": "add", "entities": [], "tool_hint": "add"}`,
		"FUNCTION_CALL: add|a=2|b=2",
	}}

	runner, err := New(Config{
		LLM:      llm,
		Registry: tools.NewRegistry(tools.Builtin()...),
		Store:    newTestStore(t),
		MaxSteps: 2,
	})
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), "keep adding")
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Empty(t, result.Answer)
	assert.Equal(t, 2, result.Steps)
}

func TestRunFailsOnUnknownTool(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"intent": "launch", "entities": [], "tool_hint": null}`,
		"FUNCTION_CALL: launch_rocket|target=moon",
	}}

	runner, err := New(Config{
		LLM:      llm,
		Registry: tools.NewRegistry(tools.Builtin()...),
		Store:    newTestStore(t),
	})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "go to the moon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch_rocket")
}

func TestRunRejectsEmptyInput(t *testing.T) {
	runner, err := New(Config{
		LLM:      &scriptedLLM{},
		Registry: tools.NewRegistry(),
		Store:    newTestStore(t),
	})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "")
	assert.Error(t, err)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Registry: tools.NewRegistry(), Store: newTestStore(t)})
	assert.Error(t, err)

	_, err = New(Config{LLM: &scriptedLLM{}, Store: newTestStore(t)})
	assert.Error(t, err)

	_, err = New(Config{LLM: &scriptedLLM{}, Registry: tools.NewRegistry()})
	assert.Error(t, err)
}
