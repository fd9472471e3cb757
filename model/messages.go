package model

import "vact/agent"

// Async messages feeding the session state machine. Every message tied
// to in-flight work carries the generation it was issued under; Update
// drops messages whose generation no longer matches, so a stale capture
// or agent reply can never mutate a newer state.

type CaptureUpdateMsg struct {
	Gen        int
	Transcript string
	// More is false when the capture stream ended.
	More bool
}

type RecordTickMsg struct {
	Gen int
}

type AgentReplyMsg struct {
	Gen    int
	Result agent.InvokeResult
	Err    error
}

type HistorySavedMsg struct {
	Err error
}
