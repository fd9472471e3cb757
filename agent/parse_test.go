package agent

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Parsed
	}{
		{
			name: "clean json",
			raw:  `{"intent":"research","title":"AI Trends","content":"## Trends","command_type":"Research"}`,
			want: Parsed{Intent: "research", Title: "AI Trends", Content: "## Trends", CommandType: "Research"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"intent\":\"generate\",\"title\":\"PRD\",\"content\":\"# PRD\",\"command_type\":\"Generate\"}\n```",
			want: Parsed{Intent: "generate", Title: "PRD", Content: "# PRD", CommandType: "Generate"},
		},
		{
			name: "prose around json",
			raw:  "Here is the result:\n{\"title\":\"Only Title\"}\nHope that helps!",
			want: Parsed{Title: "Only Title"},
		},
		{
			name: "partial fields",
			raw:  `{"content":"just content"}`,
			want: Parsed{Content: "just content"},
		},
		{
			name: "non-string field ignored",
			raw:  `{"title": 42, "content": "ok"}`,
			want: Parsed{Content: "ok"},
		},
		{
			name: "not an object",
			raw:  `["a", "b"]`,
			want: Parsed{},
		},
		{
			name: "not json at all",
			raw:  "plain prose response",
			want: Parsed{},
		},
		{
			name: "empty input",
			raw:  "",
			want: Parsed{},
		},
		{
			name: "broken json",
			raw:  `{"title": "unterminated`,
			want: Parsed{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
