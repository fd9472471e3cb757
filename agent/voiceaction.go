package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// VoiceActionInvoker talks to the hosted VoiceAction agent endpoint: a
// plain JSON POST carrying the command and agent id, answered with the
// success/response/error envelope.
type VoiceActionInvoker struct {
	baseURL string
	client  *http.Client
}

// NewVoiceActionInvoker creates an invoker for the given endpoint URL.
func NewVoiceActionInvoker(baseURL string) (*VoiceActionInvoker, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("VoiceAction endpoint URL is required")
	}
	return &VoiceActionInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type voiceActionRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// Invoke posts the command and decodes the agent envelope. Transport
// faults are returned as errors; the caller treats them like a reported
// failure.
func (v *VoiceActionInvoker) Invoke(ctx context.Context, command, agentID string) (InvokeResult, error) {
	body, err := json.Marshal(voiceActionRequest{Message: command, AgentID: agentID})
	if err != nil {
		return InvokeResult{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return InvokeResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return InvokeResult{}, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	var result InvokeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return InvokeResult{}, fmt.Errorf("failed to decode agent response: %w", err)
	}
	return result, nil
}
