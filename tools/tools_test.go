package tools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall-go-sdk/tools"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := tools.NewRegistry(tools.Builtin()...)
	assert.Equal(t, 3, reg.Len())

	tool, ok := reg.Get("add")
	require.True(t, ok)
	assert.Equal(t, "add", tool.Name())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistryReplacesSameName(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(tools.NewFuncTool("echo", "first", func(_ context.Context, _ map[string]any) (string, error) {
		return "first", nil
	}))
	reg.Register(tools.NewFuncTool("echo", "second", func(_ context.Context, _ map[string]any) (string, error) {
		return "second", nil
	}))

	assert.Equal(t, 1, reg.Len())
	tool, ok := reg.Get("echo")
	require.True(t, ok)
	out, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)
}

func TestRegistryDescribe(t *testing.T) {
	reg := tools.NewRegistry(tools.Add(), tools.StringsToCharsToInt())

	desc := reg.Describe()
	assert.Equal(t, "- add: add two numbers, parameters a and b\n- strings_to_chars_to_int: convert a string into a list of character codes, parameter input.string", desc)
}

func TestAdd(t *testing.T) {
	out, err := tools.Add().Execute(context.Background(), map[string]any{
		"a": float64(5), "b": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "8", out)

	_, err = tools.Add().Execute(context.Background(), map[string]any{"a": float64(5)})
	assert.Error(t, err)

	_, err = tools.Add().Execute(context.Background(), map[string]any{"a": "x", "b": float64(1)})
	assert.Error(t, err)
}

func TestStringsToCharsToInt(t *testing.T) {
	out, err := tools.StringsToCharsToInt().Execute(context.Background(), map[string]any{
		"input": map[string]any{"string": "INDIA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "[73, 78, 68, 73, 65]", out)

	_, err = tools.StringsToCharsToInt().Execute(context.Background(), map[string]any{
		"input": map[string]any{},
	})
	assert.Error(t, err)
}

func TestIntListToExponentialSum(t *testing.T) {
	out, err := tools.IntListToExponentialSum().Execute(context.Background(), map[string]any{
		"input": map[string]any{"int_list": []any{float64(0), float64(1)}},
	})
	require.NoError(t, err)
	// e^0 + e^1
	assert.Equal(t, "3.718281828459045", out)

	_, err = tools.IntListToExponentialSum().Execute(context.Background(), map[string]any{
		"input": map[string]any{"int_list": "not a list"},
	})
	assert.Error(t, err)
}
