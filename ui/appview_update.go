package ui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"vact/config"
	appmodel "vact/model"
	"vact/storage"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Spinner animates while the overlay is listening or waiting on the
	// agent.
	if a.session.Active() &&
		(a.session.State() == appmodel.StateRecording || a.session.State() == appmodel.StateProcessing) {
		a.waitSpinner, cmd = a.waitSpinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title, search line, count line and status bar frame the feed.
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 5
		a.commandArea.SetWidth(min(a.width-8, 70))

		a.ready = true
		a.refreshFeed()
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.session.Active() {
			return a.handleOverlayKey(msg, cmds)
		}
		return a.handleFeedKey(msg, cmds)

	case appmodel.CaptureUpdateMsg, appmodel.RecordTickMsg:
		cmds = append(cmds, a.session.Update(msg))
		return a, tea.Batch(cmds...)

	case appmodel.AgentReplyMsg:
		cmds = append(cmds, a.session.Update(msg))
		if a.session.State() == appmodel.StateResult {
			// The feed behind the overlay already has the new record.
			a.refreshFeed()
		}
		return a, tea.Batch(cmds...)

	case appmodel.HistorySavedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] history persist failed: %v", msg.Err)
		}
		return a, tea.Batch(cmds...)

	case recordRenderedMsg:
		a.rendered[msg.ID] = msg.Rendered
		a.refreshFeed()
		return a, tea.Batch(cmds...)

	case copyFlashExpiredMsg:
		a.copyFlash = false
		a.refreshFeed()
		return a, tea.Batch(cmds...)
	}

	return a, tea.Batch(cmds...)
}

func (a *AppView) handleFeedKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if a.searchFocused {
		switch msg.String() {
		case "esc":
			a.searchInput.SetValue("")
			a.searchInput.Blur()
			a.searchFocused = false
		case "enter":
			a.searchInput.Blur()
			a.searchFocused = false
		default:
			var cmd tea.Cmd
			a.searchInput, cmd = a.searchInput.Update(msg)
			cmds = append(cmds, cmd)
		}
		a.selectedIdx = 0
		a.refreshFeed()
		return *a, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "q":
		return *a, tea.Quit

	case "/":
		a.searchFocused = true
		cmds = append(cmds, a.searchInput.Focus())

	case "v", "ctrl+o":
		return a.openOverlay("", cmds)

	case "s":
		a.showSample = !a.showSample
		a.selectedIdx = 0
		a.expandedID = ""

	case "j", "down":
		if a.selectedIdx < a.maxSelectable()-1 {
			a.selectedIdx++
		}

	case "k", "up":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		// Free scrolling; selection-follow would snap it right back.
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return *a, tea.Batch(cmds...)

	case "enter":
		if a.feedEmpty() {
			if example, ok := a.selectedExample(); ok {
				return a.openOverlay(example, cmds)
			}
			break
		}
		if rec, ok := a.selectedRecord(); ok {
			if a.expandedID == rec.ID {
				a.expandedID = ""
			} else {
				a.expandedID = rec.ID
				if _, done := a.rendered[rec.ID]; !done {
					cmds = append(cmds, a.renderRecordAsync(rec.ID, rec.Content))
				}
			}
		}

	case "c":
		if rec, ok := a.selectedRecord(); ok {
			cmds = append(cmds, a.copyToClipboard(rec.Content))
		}

	case "r":
		if rec, ok := a.selectedRecord(); ok {
			return a.openOverlay(rec.Command, cmds)
		}
	}

	a.refreshFeed()
	return *a, tea.Batch(cmds...)
}

func (a *AppView) handleOverlayKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch a.session.State() {
	case appmodel.StateRecording:
		switch msg.String() {
		case "enter", " ":
			a.session.StopRecording()
			a.commandArea.SetValue(a.session.Transcript())
			cmds = append(cmds, a.commandArea.Focus())
		case "esc":
			a.closeOverlay()
		}

	case appmodel.StatePreview:
		switch msg.String() {
		case "esc":
			a.closeOverlay()
		case "enter":
			a.session.SetTranscript(a.commandArea.Value())
			cmds = append(cmds, a.session.Submit(), a.waitSpinner.Tick)
		case "ctrl+r":
			if cmd := a.session.Rerecord(); cmd != nil {
				a.commandArea.Blur()
				cmds = append(cmds, cmd, a.waitSpinner.Tick)
			}
		default:
			var cmd tea.Cmd
			a.commandArea, cmd = a.commandArea.Update(msg)
			a.session.SetTranscript(a.commandArea.Value())
			cmds = append(cmds, cmd)
		}

	case appmodel.StateProcessing:
		if msg.String() == "esc" {
			a.closeOverlay()
		}

	case appmodel.StateResult:
		switch msg.String() {
		case "c":
			if result := a.session.Result(); result != nil {
				cmds = append(cmds, a.copyToClipboard(result.Content))
			}
		case "r":
			cmds = append(cmds, a.session.Regenerate(), a.waitSpinner.Tick)
		case "esc", "enter":
			a.closeOverlay()
		}

	case appmodel.StateError:
		switch msg.String() {
		case "r", "enter":
			a.session.Retry()
			a.commandArea.SetValue(a.session.Transcript())
			cmds = append(cmds, a.commandArea.Focus())
		case "esc":
			a.closeOverlay()
		}
	}

	return *a, tea.Batch(cmds...)
}

func (a *AppView) openOverlay(preset string, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	a.expandedID = ""
	cmd := a.session.Open(preset)
	switch a.session.State() {
	case appmodel.StatePreview:
		a.commandArea.SetValue(a.session.Transcript())
		cmds = append(cmds, a.commandArea.Focus())
	case appmodel.StateRecording:
		cmds = append(cmds, cmd, a.waitSpinner.Tick)
	}
	return *a, tea.Batch(cmds...)
}

func (a *AppView) closeOverlay() {
	a.session.Close()
	a.commandArea.Blur()
	a.commandArea.Reset()
	a.refreshFeed()
}

func (a *AppView) copyToClipboard(text string) tea.Cmd {
	if err := clipboard.WriteAll(text); err != nil {
		// No flash on a failed copy.
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] clipboard write failed: %v", err)
		}
		return nil
	}
	a.copyFlash = true
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return copyFlashExpiredMsg{}
	})
}

func (a AppView) feedEmpty() bool {
	return a.displayStore().Len() == 0
}

func (a AppView) maxSelectable() int {
	if a.feedEmpty() {
		return len(a.filteredExamples())
	}
	return len(a.visibleRecords())
}

func (a AppView) selectedRecord() (storage.CommandRecord, bool) {
	records := a.visibleRecords()
	if a.selectedIdx < 0 || a.selectedIdx >= len(records) {
		return storage.CommandRecord{}, false
	}
	return records[a.selectedIdx], true
}

func (a AppView) selectedExample() (string, bool) {
	examples := a.filteredExamples()
	if a.selectedIdx < 0 || a.selectedIdx >= len(examples) {
		return "", false
	}
	return examples[a.selectedIdx], true
}
