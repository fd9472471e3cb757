package agent

import "testing"

func TestNewInvoker(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "voiceaction backend",
			config: Config{
				Type:    BackendVoiceAction,
				BaseURL: "https://agents.example.com",
			},
			expectError: false,
		},
		{
			name: "voiceaction without endpoint",
			config: Config{
				Type: BackendVoiceAction,
			},
			expectError: true,
		},
		{
			name: "openai backend",
			config: Config{
				Type:   BackendOpenAI,
				Model:  "gpt-4o-mini",
				APIKey: "test-key",
			},
			expectError: false,
		},
		{
			name: "openai without key",
			config: Config{
				Type: BackendOpenAI,
			},
			expectError: true,
		},
		{
			name: "anthropic backend",
			config: Config{
				Type:   BackendAnthropic,
				Model:  "claude-sonnet-4-5-20250929",
				APIKey: "test-key",
			},
			expectError: false,
		},
		{
			name: "ollama backend with defaults",
			config: Config{
				Type: BackendOllama,
			},
			expectError: false,
		},
		{
			name: "unknown backend",
			config: Config{
				Type: BackendType("unknown"),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker, err := NewInvoker(tt.config)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.expectError && invoker == nil {
				t.Error("expected invoker, got nil")
			}
		})
	}
}
