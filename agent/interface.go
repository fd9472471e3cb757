// Package agent defines the abstract interface for the remote agent that
// classifies and fulfills commands.
//
// The session layer stays agent-agnostic: it hands a command to an
// Invoker and gets back a success flag plus raw result text, which it
// feeds through Parse. Concrete backends cover the hosted VoiceAction
// endpoint and direct LLM providers (OpenAI, Anthropic, Ollama), created
// through the NewInvoker factory.
package agent

import "context"

// BackendType identifies the invoker implementation.
type BackendType string

const (
	BackendVoiceAction BackendType = "voiceaction"
	BackendOpenAI      BackendType = "openai"
	BackendAnthropic   BackendType = "anthropic"
	BackendOllama      BackendType = "ollama"
)

// Config holds backend-specific configuration.
type Config struct {
	Type    BackendType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic (unused for Ollama and VoiceAction)
}

// Response is the agent's reply payload. Result carries the structured
// result text to be parsed; Message is an optional human-readable note
// used as fallback content.
type Response struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// InvokeResult is the outcome of one agent call. Success false means the
// agent itself reported failure; transport faults surface as the error
// return of Invoke instead, and callers treat both the same way.
type InvokeResult struct {
	Success  bool      `json:"success"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Invoker sends one command to the agent and waits for its reply.
type Invoker interface {
	Invoke(ctx context.Context, command, agentID string) (InvokeResult, error)
}

// systemPrompt steers the LLM backends toward the structured reply the
// hosted agent produces natively.
const systemPrompt = `You are VoiceAction, an assistant that classifies and fulfills natural-language commands.
Reply with a single JSON object and nothing else, using this shape:
{"intent": "<short intent tag>", "title": "<short human label>", "content": "<markdown artifact fulfilling the command>", "command_type": "Generate" | "Rephrase" | "Research"}
Use only headings (#, ##, ###), lists (-, 1.) and **bold** in the content markdown.`
