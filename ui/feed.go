package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"vact/storage"
)

func (a AppView) renderFeed() string {
	title := AccentStyle.Bold(true).Render("VACT") + TitleStyle.Render(" - Voice Commands")
	if a.showSample {
		title += DimStyle.Render("  [sample data]")
	}
	if a.copyFlash {
		title += "  " + FlashStyle.Render("Copied!")
	}

	searchLine := a.searchInput.View() + "  " + a.countBadge()

	statusBar := StatusStyle.Render(FormatFooter(
		"v", "New Command",
		"/", "Search",
		"j/k", "Navigate",
		"Enter", "Expand",
		"c", "Copy",
		"r", "Rerun",
		"s", "Samples",
		"q", "Quit",
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		searchLine,
		"",
		a.viewport.View(),
		statusBar,
	)
}

// refreshFeed rebuilds the viewport content from the current store,
// filter and selection.
func (a *AppView) refreshFeed() {
	if !a.ready {
		return
	}

	if a.feedEmpty() {
		a.viewport.SetContent(a.renderEmptyState())
		a.viewport.GotoTop()
		return
	}

	records := a.visibleRecords()
	if len(records) == 0 {
		a.viewport.SetContent("\n" + DimStyle.Render("No commands found matching your search."))
		a.viewport.GotoTop()
		return
	}

	var content strings.Builder
	offsets := make([]int, len(records))
	line := 0
	for i, rec := range records {
		offsets[i] = line
		card := a.renderCard(rec, i == a.selectedIdx)
		content.WriteString(card)
		content.WriteString("\n")
		line += strings.Count(card, "\n") + 1
	}
	a.viewport.SetContent(content.String())
	a.scrollToSelection(offsets, line)
}

// scrollToSelection keeps the selected card inside the viewport. Cards
// above the window pull the offset up to their first line; cards below
// push it down just far enough to show their last line.
func (a *AppView) scrollToSelection(offsets []int, totalLines int) {
	if a.selectedIdx < 0 || a.selectedIdx >= len(offsets) {
		return
	}

	top := offsets[a.selectedIdx]
	bottom := totalLines
	if a.selectedIdx+1 < len(offsets) {
		bottom = offsets[a.selectedIdx+1]
	}

	if top < a.viewport.YOffset {
		a.viewport.SetYOffset(top)
	} else if bottom > a.viewport.YOffset+a.viewport.Height {
		a.viewport.SetYOffset(bottom - a.viewport.Height)
	}
}

func (a AppView) renderCard(rec storage.CommandRecord, selected bool) string {
	marker := "  "
	if selected {
		marker = SelectedStyle.Render("> ")
	}

	badge := StyleForCommandType(rec.CommandType).Render(rec.CommandType)
	age := DimStyle.Render(storage.RelativeTime(rec.Timestamp, time.Now()))

	title := rec.Title
	if title == "" {
		title = "Untitled"
	}

	width := a.width - 6
	if width < 20 {
		width = 20
	}

	var card strings.Builder
	card.WriteString(fmt.Sprintf("%s%s %s\n", marker, badge, age))
	card.WriteString("  " + TitleStyle.Render(runewidth.Truncate(title, width, "...")) + "\n")
	card.WriteString("  " + DimStyle.Render(runewidth.Truncate(rec.Command, width, "...")) + "\n")

	if a.expandedID == rec.ID {
		card.WriteString(a.renderExpanded(rec))
	} else {
		preview := contentPreview(rec.Content, 200)
		if preview != "" {
			card.WriteString("  " + DimStyle.Render(runewidth.Truncate(preview, width, "...")) + "\n")
		}
	}

	return card.String()
}

func (a AppView) renderExpanded(rec storage.CommandRecord) string {
	body, ok := a.rendered[rec.ID]
	if !ok {
		body = DimStyle.Render("Rendering...")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for _, line := range strings.Split(body, "\n") {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n  " + StatusStyle.Render(FormatFooter("c", "Copy", "r", "Rerun", "Enter", "Collapse")) + "\n")
	return sb.String()
}

func (a AppView) renderEmptyState() string {
	var sb strings.Builder
	sb.WriteString("\n  " + TitleStyle.Render("No commands yet") + "\n")
	sb.WriteString("  " + DimStyle.Render("Press v to give your first voice command, or try an example below.") + "\n\n")

	examples := a.filteredExamples()
	if len(examples) == 0 {
		sb.WriteString("  " + DimStyle.Render("No examples match your search.") + "\n")
		return sb.String()
	}

	for i, example := range examples {
		marker := "  "
		if i == a.selectedIdx {
			marker = SelectedStyle.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("  %s%s\n", marker, example))
	}
	return sb.String()
}

// filteredExamples ranks the empty-state examples against the search
// text. Blank search keeps the original order.
func (a AppView) filteredExamples() []string {
	query := strings.TrimSpace(a.searchInput.Value())
	if query == "" {
		return exampleCommands
	}

	matches := fuzzy.Find(query, exampleCommands)
	ranked := make([]string, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, exampleCommands[m.Index])
	}
	return ranked
}

// contentPreview flattens content to a single unstyled line.
func contentPreview(content string, limit int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return flat
}
