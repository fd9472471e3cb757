package agent

import (
	"encoding/json"
	"strings"
)

// Parsed holds the fields extracted from the agent's result text. All
// fields are optional; absent or unparseable values stay empty and the
// session fills in defaults.
type Parsed struct {
	Intent      string
	Title       string
	Content     string
	CommandType string
}

// Parse extracts the structured fields from raw agent output. LLMs wrap
// JSON in code fences or prose more often than not, so this strips
// fences and trims to the outermost object before decoding. Parse never
// fails: anything it cannot make sense of yields a zero Parsed.
func Parse(raw string) Parsed {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Parsed{}
	}

	// Strip ```json ... ``` fences.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Trim surrounding prose to the outermost object.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Parsed{}
	}
	text = text[start : end+1]

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Parsed{}
	}

	return Parsed{
		Intent:      stringField(fields, "intent"),
		Title:       stringField(fields, "title"),
		Content:     stringField(fields, "content"),
		CommandType: stringField(fields, "command_type"),
	}
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
