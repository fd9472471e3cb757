package agent

import "fmt"

// NewInvoker creates an invoker based on configuration.
//
// This is the centralized factory for every backend type; it dispatches
// to the matching constructor and returns its error unchanged.
func NewInvoker(cfg Config) (Invoker, error) {
	switch cfg.Type {
	case BackendVoiceAction:
		return NewVoiceActionInvoker(cfg.BaseURL)
	case BackendOpenAI:
		return NewOpenAIInvoker(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case BackendAnthropic:
		return NewAnthropicInvoker(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case BackendOllama:
		return NewOllamaInvoker(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown agent backend: %s", cfg.Type)
	}
}
