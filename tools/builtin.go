package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Builtin returns the stock math tools.
func Builtin() []Tool {
	return []Tool{Add(), StringsToCharsToInt(), IntListToExponentialSum()}
}

// Add returns a tool that sums two numbers.
func Add() Tool {
	return NewFuncTool("add", "add two numbers, parameters a and b",
		func(_ context.Context, args map[string]any) (string, error) {
			a, err := numberArg(args, "a")
			if err != nil {
				return "", err
			}
			b, err := numberArg(args, "b")
			if err != nil {
				return "", err
			}
			return formatNumber(a + b), nil
		})
}

// StringsToCharsToInt returns a tool that converts a string into the list
// of character codes of its runes.
func StringsToCharsToInt() Tool {
	return NewFuncTool("strings_to_chars_to_int", "convert a string into a list of character codes, parameter input.string",
		func(_ context.Context, args map[string]any) (string, error) {
			s, err := stringArg(args, "input", "string")
			if err != nil {
				return "", err
			}
			codes := make([]string, 0, len(s))
			for _, r := range s {
				codes = append(codes, strconv.Itoa(int(r)))
			}
			return "[" + strings.Join(codes, ", ") + "]", nil
		})
}

// IntListToExponentialSum returns a tool that sums e^x over a list of
// numbers.
func IntListToExponentialSum() Tool {
	return NewFuncTool("int_list_to_exponential_sum", "sum exponentials of a list of numbers, parameter input.int_list",
		func(_ context.Context, args map[string]any) (string, error) {
			vals, err := numberListArg(args, "input", "int_list")
			if err != nil {
				return "", err
			}
			var sum float64
			for _, v := range vals {
				sum += math.Exp(v)
			}
			return formatNumber(sum), nil
		})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// lookup walks nested parameter maps along the given key path.
func lookup(args map[string]any, path ...string) (any, error) {
	var cur any = args
	for i, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parameter %s: expected an object", strings.Join(path[:i], "."))
		}
		cur, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("missing parameter %s", strings.Join(path[:i+1], "."))
		}
	}
	return cur, nil
}

func numberArg(args map[string]any, path ...string) (float64, error) {
	v, err := lookup(args, path...)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %q is not a number", strings.Join(path, "."), n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("parameter %s: expected a number, got %T", strings.Join(path, "."), v)
	}
}

func stringArg(args map[string]any, path ...string) (string, error) {
	v, err := lookup(args, path...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s: expected a string, got %T", strings.Join(path, "."), v)
	}
	return s, nil
}

func numberListArg(args map[string]any, path ...string) ([]float64, error) {
	v, err := lookup(args, path...)
	if err != nil {
		return nil, err
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %s: expected a list, got %T", strings.Join(path, "."), v)
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		n, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("parameter %s[%d]: expected a number, got %T", strings.Join(path, "."), i, item)
		}
		out = append(out, n)
	}
	return out, nil
}
