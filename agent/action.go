package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseFunctionCall parses a "FUNCTION_CALL: tool|key=value|..." plan line
// into a tool name and an argument map. Dotted keys produce nested maps,
// and values are decoded as JSON literals where possible (numbers, lists,
// quoted strings); anything else stays a plain string.
func ParseFunctionCall(plan string) (string, map[string]any, error) {
	if !strings.HasPrefix(plan, planPrefixFunctionCall) {
		return "", nil, fmt.Errorf("not a function call: %q", plan)
	}
	rest := strings.TrimSpace(strings.TrimPrefix(plan, planPrefixFunctionCall))

	parts := strings.Split(rest, "|")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return "", nil, fmt.Errorf("function call has no tool name: %q", plan)
	}

	args := make(map[string]any)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return "", nil, fmt.Errorf("malformed parameter %q in %q", part, plan)
		}
		if err := setArg(args, strings.TrimSpace(key), parseLiteral(value)); err != nil {
			return "", nil, fmt.Errorf("parameter %q: %w", key, err)
		}
	}
	return name, args, nil
}

// setArg stores value at a dotted key path, creating intermediate maps.
func setArg(args map[string]any, key string, value any) error {
	path := strings.Split(key, ".")
	cur := args
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg]
		if !ok {
			m := make(map[string]any)
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("key %q is already set to a scalar", seg)
		}
		cur = m
	}
	cur[path[len(path)-1]] = value
	return nil
}

func parseLiteral(s string) any {
	s = strings.TrimSpace(s)
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
