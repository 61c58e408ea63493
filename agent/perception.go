package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Perception is the structured reading of a user input: what the user
// wants, the entities involved, and an optional hint at a useful tool.
type Perception struct {
	UserInput string
	Intent    string
	Entities  []string
	ToolHint  string
}

const perceptionPrompt = `You are an AI that extracts structured facts from user input.

Input: %q

Return a JSON object with exactly these keys:
- intent: (brief phrase describing what the user wants)
- entities: a list of strings (numbers, names, values mentioned)
- tool_hint: (name of a tool that might help, or null)

Output only the JSON object. No markdown, no explanation.`

// perceive extracts a Perception from the user input. Extraction is best
// effort: on any failure the loop continues with an empty perception
// rather than aborting.
func (r *Runner) perceive(ctx context.Context, userInput string) Perception {
	raw, err := r.llm.Complete(ctx, "", fmt.Sprintf(perceptionPrompt, userInput))
	if err != nil {
		r.logger.Warn().Err(err).Msg("perception failed, continuing without it")
		return Perception{UserInput: userInput}
	}
	return parsePerception(userInput, raw)
}

func parsePerception(userInput, raw string) Perception {
	p := Perception{UserInput: userInput}

	doc := gjson.Parse(stripFences(raw))
	if !doc.IsObject() {
		return p
	}
	p.Intent = doc.Get("intent").String()
	p.ToolHint = doc.Get("tool_hint").String()

	entities := doc.Get("entities")
	switch {
	case entities.IsArray():
		for _, e := range entities.Array() {
			p.Entities = append(p.Entities, e.String())
		}
	case entities.IsObject():
		// Some models return entities keyed by role. Keep the values.
		entities.ForEach(func(_, v gjson.Result) bool {
			p.Entities = append(p.Entities, v.String())
			return true
		})
	}
	return p
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
