package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "vact/model"
	"vact/storage"
)

type AppView struct {
	// Core data model
	session *appmodel.Session
	history *storage.HistoryStore

	// UI components
	viewport    viewport.Model
	searchInput textinput.Model
	commandArea textarea.Model
	waitSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Feed state
	searchFocused bool
	selectedIdx   int
	expandedID    string
	rendered      map[string]string // record id -> ANSI content for the expanded view

	// Sample data is display-only; toggling never touches the real store.
	showSample  bool
	sampleStore *storage.HistoryStore

	copyFlash bool
}

func NewAppView(session *appmodel.Session, history *storage.HistoryStore, now func() time.Time) AppView {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "Search commands..."
	search.CharLimit = 100

	ta := textarea.New()
	ta.Placeholder = "Type or edit your command..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(60)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AccentStyle

	samples := storage.NewHistoryStore(nil)
	records := sampleRecords(now())
	for i := len(records) - 1; i >= 0; i-- {
		samples.Append(records[i])
	}

	return AppView{
		session:     session,
		history:     history,
		viewport:    viewport.New(0, 0),
		searchInput: search,
		commandArea: ta,
		waitSpinner: sp,
		rendered:    map[string]string{},
		sampleStore: samples,
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading vact..."
	}

	if a.session.Active() {
		return a.renderOverlay()
	}
	return a.renderFeed()
}

// displayStore is the store the feed shows: the real history, or the
// built-in samples when the demo toggle is on.
func (a AppView) displayStore() *storage.HistoryStore {
	if a.showSample {
		return a.sampleStore
	}
	return a.history
}

func (a AppView) visibleRecords() []storage.CommandRecord {
	return a.displayStore().Filter(a.searchInput.Value())
}

func (a AppView) countBadge() string {
	n := a.displayStore().Len()
	label := fmt.Sprintf("%d commands", n)
	if n == 1 {
		label = "1 command"
	}
	return DimStyle.Render(label)
}
