package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaInvoker fulfills commands through a local Ollama server.
type OllamaInvoker struct {
	client *api.Client
	model  string
}

// NewOllamaInvoker creates an Ollama-backed invoker. Defaults to the
// standard local server and llama3.1 when unset.
func NewOllamaInvoker(baseURL, model string) (*OllamaInvoker, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaInvoker{
		client: api.NewClient(parsedURL, http.DefaultClient),
		model:  model,
	}, nil
}

// Invoke sends the command as a non-streaming chat request and wraps the
// reply in the agent envelope.
func (p *OllamaInvoker) Invoke(ctx context.Context, command, agentID string) (InvokeResult, error) {
	req := &api.ChatRequest{
		Model: p.model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: command},
		},
		Stream: func(b bool) *bool { return &b }(false),
	}

	var text strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return InvokeResult{}, fmt.Errorf("Ollama request failed: %w", err)
	}

	return InvokeResult{
		Success:  true,
		Response: &Response{Result: text.String()},
	}, nil
}
