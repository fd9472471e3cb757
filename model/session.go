// Package model holds the voice-command session state machine and the
// business state behind the UI.
package model

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vact/agent"
	"vact/config"
	"vact/speech"
	"vact/storage"
)

// State is the current phase of a voice-command session.
type State int

const (
	StateRecording State = iota
	StatePreview
	StateProcessing
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StatePreview:
		return "preview"
	case StateProcessing:
		return "processing"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ResultData is the parsed agent reply shown in the Result state.
type ResultData struct {
	Intent      string
	Title       string
	Content     string
	CommandType string
}

// Session drives one command lifecycle: capture, review, dispatch,
// result. Exactly one session is active at a time; Open resets it for a
// new lifecycle and Close tears it down.
//
// All mutation happens on the bubbletea goroutine. Async work (capture
// updates, ticks, agent replies) re-enters through Update as generation-
// tagged messages.
type Session struct {
	Capture speech.Capture
	Invoker agent.Invoker
	History *storage.HistoryStore
	AgentID string

	state      State
	active     bool
	transcript string
	elapsed    int
	speechOK   bool
	result     *ResultData
	errMsg     string

	// gen invalidates in-flight async work; bumped on every capture
	// start, every Processing entry and on Close.
	gen int

	updates       <-chan speech.Update
	captureCancel context.CancelFunc

	// now is swappable for tests.
	now func() time.Time
}

// NewSession creates an inactive session over the given collaborators.
func NewSession(capture speech.Capture, invoker agent.Invoker, history *storage.HistoryStore, agentID string) *Session {
	return &Session{
		Capture: capture,
		Invoker: invoker,
		History: history,
		AgentID: agentID,
		now:     time.Now,
	}
}

func (s *Session) State() State          { return s.state }
func (s *Session) Active() bool          { return s.active }
func (s *Session) Transcript() string    { return s.transcript }
func (s *Session) Elapsed() int          { return s.elapsed }
func (s *Session) SpeechAvailable() bool { return s.speechOK }
func (s *Session) Result() *ResultData   { return s.result }
func (s *Session) ErrorMessage() string  { return s.errMsg }

// Open starts a new command lifecycle. With preset text the session
// skips capture and opens in Preview; otherwise it opens in Recording
// and starts capture.
func (s *Session) Open(preset string) tea.Cmd {
	s.teardownCapture()
	s.active = true
	s.speechOK = true
	s.result = nil
	s.errMsg = ""
	s.elapsed = 0

	if preset != "" {
		s.transcript = preset
		s.state = StatePreview
		return nil
	}

	s.transcript = ""
	return s.enterRecording()
}

// enterRecording starts capture and the elapsed-time counter. Capture
// that cannot start falls back to manual entry in Preview; it is never
// an error.
func (s *Session) enterRecording() tea.Cmd {
	s.state = StateRecording
	s.elapsed = 0
	s.gen++

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := s.Capture.Start(ctx)
	if err != nil {
		cancel()
		s.speechOK = false
		s.state = StatePreview
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] capture unavailable: %v", err)
		}
		return nil
	}

	s.captureCancel = cancel
	s.updates = updates
	return tea.Batch(s.listenCapture(s.gen), s.tick(s.gen))
}

// StopRecording freezes the accumulated transcript and moves to Preview.
func (s *Session) StopRecording() {
	if s.state != StateRecording {
		return
	}
	s.teardownCapture()
	s.state = StatePreview
}

// Rerecord clears the transcript and restarts capture from Preview.
func (s *Session) Rerecord() tea.Cmd {
	if s.state != StatePreview || !s.speechOK {
		return nil
	}
	s.transcript = ""
	return s.enterRecording()
}

// SetTranscript replaces the transcript while editing in Preview.
func (s *Session) SetTranscript(text string) {
	if s.state != StatePreview {
		return
	}
	s.transcript = text
}

// Submit dispatches the transcript to the agent. A blank transcript is a
// no-op: the guard holds the session in Preview without calling out.
func (s *Session) Submit() tea.Cmd {
	if s.state != StatePreview {
		return nil
	}
	trimmed := strings.TrimSpace(s.transcript)
	if trimmed == "" {
		return nil
	}
	s.transcript = trimmed
	return s.enterProcessing()
}

// Regenerate re-invokes the agent with the same transcript. The prior
// record stays in history; success appends a new one.
func (s *Session) Regenerate() tea.Cmd {
	if s.state != StateResult {
		return nil
	}
	return s.enterProcessing()
}

// Retry returns from Error to an editable Preview so the user can amend
// the text before resubmitting. It never re-invokes the agent directly.
func (s *Session) Retry() {
	if s.state != StateError {
		return
	}
	s.state = StatePreview
}

// Close ends the session. Capture is torn down and the generation bump
// makes any in-flight agent reply a discard.
func (s *Session) Close() {
	s.teardownCapture()
	s.active = false
	s.gen++
}

// enterProcessing starts the agent call. Being in Processing always
// means a call is in flight.
func (s *Session) enterProcessing() tea.Cmd {
	s.teardownCapture()
	s.state = StateProcessing
	s.errMsg = ""
	s.gen++

	gen := s.gen
	invoker := s.Invoker
	command := s.transcript
	agentID := s.AgentID
	return func() tea.Msg {
		result, err := invoker.Invoke(context.Background(), command, agentID)
		return AgentReplyMsg{Gen: gen, Result: result, Err: err}
	}
}

// Update applies an async message, discarding anything stale.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CaptureUpdateMsg:
		if msg.Gen != s.gen || s.state != StateRecording {
			return nil
		}
		if !msg.More {
			// Capture stream ended on its own; keep what we have and
			// stay in Recording until the user stops.
			s.updates = nil
			return nil
		}
		s.transcript = msg.Transcript
		return s.listenCapture(msg.Gen)

	case RecordTickMsg:
		if msg.Gen != s.gen || s.state != StateRecording {
			return nil
		}
		s.elapsed++
		return s.tick(msg.Gen)

	case AgentReplyMsg:
		if msg.Gen != s.gen || !s.active || s.state != StateProcessing {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Session] discarding stale agent reply (gen %d, current %d)", msg.Gen, s.gen)
			}
			return nil
		}
		return s.resolveAgentReply(msg)
	}
	return nil
}

// resolveAgentReply converts the agent outcome into Result or Error.
// Transport faults and agent-reported failures land in Error with the
// message captured verbatim when available; a malformed payload on a
// successful call degrades to defaults instead of failing.
func (s *Session) resolveAgentReply(msg AgentReplyMsg) tea.Cmd {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		if s.errMsg == "" {
			s.errMsg = "Network error. Please try again."
		}
		s.state = StateError
		return nil
	}
	if !msg.Result.Success {
		s.errMsg = msg.Result.Error
		if s.errMsg == "" {
			s.errMsg = "Agent returned an error. Please try again."
		}
		s.state = StateError
		return nil
	}

	var raw, fallback string
	if msg.Result.Response != nil {
		raw = msg.Result.Response.Result
		fallback = msg.Result.Response.Message
	}
	parsed := agent.Parse(raw)

	data := &ResultData{
		Intent:      parsed.Intent,
		Title:       parsed.Title,
		Content:     parsed.Content,
		CommandType: parsed.CommandType,
	}
	if data.Intent == "" {
		data.Intent = "assist"
	}
	if data.Title == "" {
		data.Title = "Response"
	}
	if data.Content == "" {
		data.Content = fallback
	}
	if data.CommandType == "" {
		data.CommandType = "Generate"
	}

	s.result = data
	s.state = StateResult

	s.History.Append(storage.CommandRecord{
		ID:          storage.NewRecordID(),
		Command:     s.transcript,
		Intent:      data.Intent,
		Title:       data.Title,
		Content:     data.Content,
		CommandType: data.CommandType,
		Timestamp:   s.now(),
	})

	return s.persistHistory()
}

// persistHistory saves the store after an append. The store is non-empty
// here, so the write is never the empty-clobber case.
func (s *Session) persistHistory() tea.Cmd {
	history := s.History
	return func() tea.Msg {
		return HistorySavedMsg{Err: history.Persist()}
	}
}

func (s *Session) listenCapture(gen int) tea.Cmd {
	updates := s.updates
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return CaptureUpdateMsg{Gen: gen, More: false}
		}
		return CaptureUpdateMsg{Gen: gen, Transcript: u.Transcript, More: true}
	}
}

func (s *Session) tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return RecordTickMsg{Gen: gen}
	})
}

func (s *Session) teardownCapture() {
	if s.captureCancel != nil {
		s.captureCancel()
		s.captureCancel = nil
	}
	s.Capture.Stop()
	s.updates = nil
}
