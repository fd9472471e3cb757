package ui

import (
	"strconv"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"vact/config"
	blocks "vact/markdown"
)

// renderRecordAsync produces the full ANSI rendering of a record's
// content for the expanded feed view, off the update loop. Records can
// carry long artifacts; rendering them inline would stall keystrokes.
func (a AppView) renderRecordAsync(id, content string) tea.Cmd {
	width := a.width - 8
	if width < 40 {
		width = 40
	}
	return func() tea.Msg {
		start := time.Now()

		// Autolink stays disabled so terminal emulators handle URL
		// detection themselves.
		customExt := markdown.Extensions() &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] rendered record %s (%d chars) in %v", id, len(content), time.Since(start))
		}

		return recordRenderedMsg{
			ID:       id,
			Rendered: strings.TrimRight(string(rendered), "\n"),
		}
	}
}

// renderBlocks styles agent output for the overlay result view using the
// block renderer's typed output. Unlike the full pipeline above it is
// cheap enough to run inside View.
func renderBlocks(content string) string {
	var sb strings.Builder

	ordinal := 0
	for _, b := range blocks.Render(content) {
		switch b.Kind {
		case blocks.Heading:
			ordinal = 0
			style := TitleStyle
			if b.Level == 1 {
				style = style.Foreground(accentColor)
			}
			sb.WriteString(style.Render(b.Text) + "\n")
		case blocks.ListItem:
			if b.Ordered {
				ordinal++
				sb.WriteString("  " + DimStyle.Render(strconv.Itoa(ordinal)+".") + " ")
			} else {
				ordinal = 0
				sb.WriteString("  " + DimStyle.Render("•") + " ")
			}
			sb.WriteString(renderSpans(b.Spans) + "\n")
		case blocks.Spacer:
			ordinal = 0
			sb.WriteString("\n")
		default:
			ordinal = 0
			sb.WriteString(renderSpans(b.Spans) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderSpans(spans []blocks.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Bold {
			sb.WriteString(TitleStyle.Render(s.Text))
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
