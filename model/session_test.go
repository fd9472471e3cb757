package model

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vact/agent"
	"vact/speech"
	"vact/storage"
)

// fakeCapture scripts the speech collaborator.
type fakeCapture struct {
	startErr error
	updates  chan speech.Update
	starts   int
	stops    int
}

func (f *fakeCapture) Start(ctx context.Context) (<-chan speech.Update, error) {
	f.starts++
	if f.startErr != nil {
		return nil, f.startErr
	}
	if f.updates == nil {
		f.updates = make(chan speech.Update, 8)
	}
	return f.updates, nil
}

func (f *fakeCapture) Stop() { f.stops++ }

// fakeInvoker scripts the agent collaborator and records every call.
type fakeInvoker struct {
	calls   []string
	results []agent.InvokeResult
	errs    []error
}

func (f *fakeInvoker) Invoke(ctx context.Context, command, agentID string) (agent.InvokeResult, error) {
	i := len(f.calls)
	f.calls = append(f.calls, command)
	var result agent.InvokeResult
	var err error
	if i < len(f.results) {
		result = f.results[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return result, err
}

type memKV struct {
	data map[string]string
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func successReply(result string) agent.InvokeResult {
	return agent.InvokeResult{
		Success:  true,
		Response: &agent.Response{Result: result},
	}
}

func newTestSession(capture *fakeCapture, invoker *fakeInvoker) (*Session, *storage.HistoryStore) {
	history := storage.NewHistoryStore(&memKV{data: map[string]string{}})
	s := NewSession(capture, invoker, history, "agent-1")
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s, history
}

// run executes a command and feeds its message back into the session,
// returning any follow-up command.
func run(t *testing.T, s *Session, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return s.Update(cmd())
}

func TestOpenWithPresetSkipsCapture(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})

	if cmd := s.Open("rerun this"); cmd != nil {
		t.Error("expected no command when opening with preset text")
	}
	if s.State() != StatePreview {
		t.Errorf("state = %v, want preview", s.State())
	}
	if s.Transcript() != "rerun this" {
		t.Errorf("transcript = %q", s.Transcript())
	}
	if capture.starts != 0 {
		t.Error("capture must not start for preset sessions")
	}
}

func TestOpenWithoutPresetStartsRecording(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})

	if cmd := s.Open(""); cmd == nil {
		t.Error("expected capture/tick commands")
	}
	if s.State() != StateRecording {
		t.Errorf("state = %v, want recording", s.State())
	}
	if capture.starts != 1 {
		t.Errorf("capture starts = %d, want 1", capture.starts)
	}
	if !s.SpeechAvailable() {
		t.Error("speech should be available")
	}
}

func TestCaptureUnsupportedFallsBackToPreview(t *testing.T) {
	capture := &fakeCapture{startErr: speech.ErrUnsupported}
	s, _ := newTestSession(capture, &fakeInvoker{})

	if cmd := s.Open(""); cmd != nil {
		t.Error("expected no command on capture fallback")
	}
	if s.State() != StatePreview {
		t.Errorf("state = %v, want preview fallback", s.State())
	}
	if s.SpeechAvailable() {
		t.Error("speech should be flagged unavailable")
	}
	if s.ErrorMessage() != "" {
		t.Error("capture fallback must not surface an error")
	}
}

func TestCaptureUpdates(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})
	s.Open("")

	s.Update(CaptureUpdateMsg{Gen: s.gen, Transcript: "hello", More: true})
	if s.Transcript() != "hello" {
		t.Errorf("transcript = %q, want hello", s.Transcript())
	}

	// A stale update must not touch the transcript.
	s.Update(CaptureUpdateMsg{Gen: s.gen - 1, Transcript: "stale", More: true})
	if s.Transcript() != "hello" {
		t.Errorf("stale update applied: transcript = %q", s.Transcript())
	}
}

func TestStopRecordingFreezesTranscript(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})
	s.Open("")
	s.Update(CaptureUpdateMsg{Gen: s.gen, Transcript: "partial text", More: true})

	s.StopRecording()
	if s.State() != StatePreview {
		t.Errorf("state = %v, want preview", s.State())
	}
	if s.Transcript() != "partial text" {
		t.Errorf("transcript = %q, want frozen text", s.Transcript())
	}
	if capture.stops == 0 {
		t.Error("capture was not stopped")
	}
}

func TestElapsedCounter(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})
	s.Open("")

	if cmd := s.Update(RecordTickMsg{Gen: s.gen}); cmd == nil {
		t.Error("expected a follow-up tick")
	}
	s.Update(RecordTickMsg{Gen: s.gen})
	if s.Elapsed() != 2 {
		t.Errorf("elapsed = %d, want 2", s.Elapsed())
	}

	// Ticks stop counting outside Recording.
	s.StopRecording()
	s.Update(RecordTickMsg{Gen: s.gen})
	if s.Elapsed() != 2 {
		t.Errorf("elapsed advanced outside recording: %d", s.Elapsed())
	}
}

func TestRerecordClearsTranscript(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})
	s.Open("keep me")

	if cmd := s.Rerecord(); cmd == nil {
		t.Error("expected capture restart")
	}
	if s.State() != StateRecording {
		t.Errorf("state = %v, want recording", s.State())
	}
	if s.Transcript() != "" {
		t.Errorf("transcript = %q, want cleared", s.Transcript())
	}
}

func TestEmptySubmissionIsNoOp(t *testing.T) {
	invoker := &fakeInvoker{}
	s, _ := newTestSession(&fakeCapture{}, invoker)
	s.Open("   \t  ")

	if cmd := s.Submit(); cmd != nil {
		t.Error("blank submission must not produce a command")
	}
	if s.State() != StatePreview {
		t.Errorf("state = %v, want preview", s.State())
	}
	if len(invoker.calls) != 0 {
		t.Errorf("agent was called %d times for a blank submission", len(invoker.calls))
	}
}

func TestSubmitSuccessAppendsOneRecord(t *testing.T) {
	invoker := &fakeInvoker{results: []agent.InvokeResult{
		successReply(`{"intent":"research","title":"AI Trends","content":"## Trends","command_type":"Research"}`),
	}}
	s, history := newTestSession(&fakeCapture{}, invoker)
	s.Open("  research ai trends  ")

	cmd := s.Submit()
	if s.State() != StateProcessing {
		t.Fatalf("state = %v, want processing", s.State())
	}

	persist := run(t, s, cmd)
	if s.State() != StateResult {
		t.Fatalf("state = %v, want result", s.State())
	}
	if persist == nil {
		t.Error("expected a persist command after append")
	}

	if history.Len() != 1 {
		t.Fatalf("history has %d records, want 1", history.Len())
	}
	rec := history.Records()[0]
	if rec.Command != "research ai trends" {
		t.Errorf("record command = %q, want trimmed transcript", rec.Command)
	}
	if rec.Title != "AI Trends" || rec.Intent != "research" || rec.CommandType != "Research" {
		t.Errorf("record fields not taken from payload: %+v", rec)
	}
	if s.Result() == nil || s.Result().Content != "## Trends" {
		t.Errorf("result data = %+v", s.Result())
	}
}

func TestSubmitFillsDefaultsOnSparsePayload(t *testing.T) {
	invoker := &fakeInvoker{results: []agent.InvokeResult{
		{
			Success:  true,
			Response: &agent.Response{Result: "not json at all", Message: "fallback note"},
		},
	}}
	s, history := newTestSession(&fakeCapture{}, invoker)
	s.Open("do something")

	run(t, s, s.Submit())
	if s.State() != StateResult {
		t.Fatalf("state = %v, want result (parse failure is not an error)", s.State())
	}

	rec := history.Records()[0]
	if rec.Intent != "assist" || rec.Title != "Response" || rec.CommandType != "Generate" {
		t.Errorf("defaults not applied: %+v", rec)
	}
	if rec.Content != "fallback note" {
		t.Errorf("content = %q, want response message fallback", rec.Content)
	}
}

func TestAgentFailureSurfacesError(t *testing.T) {
	tests := []struct {
		name    string
		result  agent.InvokeResult
		err     error
		wantMsg string
	}{
		{
			name:    "agent-reported failure",
			result:  agent.InvokeResult{Success: false, Error: "quota exceeded"},
			wantMsg: "quota exceeded",
		},
		{
			name:    "failure without message",
			result:  agent.InvokeResult{Success: false},
			wantMsg: "Agent returned an error. Please try again.",
		},
		{
			name:    "transport fault",
			err:     context.DeadlineExceeded,
			wantMsg: context.DeadlineExceeded.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &fakeInvoker{results: []agent.InvokeResult{tt.result}, errs: []error{tt.err}}
			s, history := newTestSession(&fakeCapture{}, invoker)
			s.Open("a command")

			run(t, s, s.Submit())
			if s.State() != StateError {
				t.Fatalf("state = %v, want error", s.State())
			}
			if s.ErrorMessage() != tt.wantMsg {
				t.Errorf("error message = %q, want %q", s.ErrorMessage(), tt.wantMsg)
			}
			if history.Len() != 0 {
				t.Errorf("failure appended %d records", history.Len())
			}

			// Retry returns to an editable preview, not to the network.
			s.Retry()
			if s.State() != StatePreview {
				t.Errorf("state after retry = %v, want preview", s.State())
			}
			if s.Transcript() != "a command" {
				t.Errorf("transcript lost on retry: %q", s.Transcript())
			}
			if len(invoker.calls) != 1 {
				t.Errorf("retry must not re-invoke the agent; calls = %d", len(invoker.calls))
			}
		})
	}
}

func TestRegenerateAppendsSecondRecord(t *testing.T) {
	invoker := &fakeInvoker{results: []agent.InvokeResult{
		successReply(`{"title":"First"}`),
		successReply(`{"title":"Second"}`),
	}}
	s, history := newTestSession(&fakeCapture{}, invoker)
	s.Open("summarize the meeting")

	run(t, s, s.Submit())
	first := history.Records()[0]

	cmd := s.Regenerate()
	if s.State() != StateProcessing {
		t.Fatalf("state = %v, want processing", s.State())
	}
	run(t, s, cmd)

	if history.Len() != 2 {
		t.Fatalf("history has %d records, want 2", history.Len())
	}
	records := history.Records()
	if records[0].Title != "Second" || records[1].Title != "First" {
		t.Errorf("unexpected order: %q then %q", records[0].Title, records[1].Title)
	}
	if records[0].Command != "summarize the meeting" || records[1].Command != "summarize the meeting" {
		t.Error("regeneration must reuse the same transcript")
	}
	if records[1].ID != first.ID {
		t.Error("regeneration replaced the prior record")
	}
}

func TestStaleReplyAfterCloseIsDiscarded(t *testing.T) {
	invoker := &fakeInvoker{results: []agent.InvokeResult{
		successReply(`{"title":"Late"}`),
	}}
	s, history := newTestSession(&fakeCapture{}, invoker)
	s.Open("slow command")

	cmd := s.Submit()
	s.Close()

	// The in-flight call resolves after the session closed.
	s.Update(cmd())
	if history.Len() != 0 {
		t.Errorf("stale reply appended %d records after close", history.Len())
	}

	// Reopening must not resurrect the stale reply either.
	s.Open("fresh start")
	if s.State() != StatePreview {
		t.Errorf("state = %v, want preview", s.State())
	}
	if history.Len() != 0 {
		t.Errorf("reopened session inherited stale records: %d", history.Len())
	}
}

func TestStaleReplyAfterRegenerateIsDiscarded(t *testing.T) {
	invoker := &fakeInvoker{results: []agent.InvokeResult{
		successReply(`{"title":"First"}`),
		successReply(`{"title":"Second"}`),
	}}
	s, history := newTestSession(&fakeCapture{}, invoker)
	s.Open("command")

	run(t, s, s.Submit())
	staleGen := s.gen

	cmd := s.Regenerate()

	// A reply from the superseded attempt arrives after regeneration
	// already started a new one.
	s.Update(AgentReplyMsg{Gen: staleGen, Result: successReply(`{"title":"Ghost"}`)})
	if history.Len() != 1 {
		t.Fatalf("stale reply appended; history has %d records", history.Len())
	}

	run(t, s, cmd)
	if history.Len() != 2 {
		t.Fatalf("history has %d records, want 2", history.Len())
	}
	if history.Records()[0].Title != "Second" {
		t.Errorf("newest record = %q, want Second", history.Records()[0].Title)
	}
}

func TestCloseTearsDownCapture(t *testing.T) {
	capture := &fakeCapture{}
	s, _ := newTestSession(capture, &fakeInvoker{})
	s.Open("")

	s.Close()
	if s.Active() {
		t.Error("session still active after close")
	}
	if capture.stops == 0 {
		t.Error("capture not stopped on close")
	}
}
