package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	appmodel "vact/model"
)

var overlayFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(dimColor).
	Padding(1, 2)

func (a AppView) renderOverlay() string {
	var header, body, footer string

	switch a.session.State() {
	case appmodel.StateRecording:
		header = "Listening..."
		body = a.renderRecordingBody()
		footer = FormatFooter("Enter/Space", "Stop Recording", "Esc", "Cancel")

	case appmodel.StatePreview:
		header = "Review Command"
		body = a.renderPreviewBody()
		footer = FormatFooter("Enter", "Send", "Ctrl+R", "Re-record", "Esc", "Cancel")

	case appmodel.StateProcessing:
		header = "Processing..."
		body = fmt.Sprintf("%s Generating response...", a.waitSpinner.View())
		footer = FormatFooter("Esc", "Cancel")

	case appmodel.StateResult:
		result := a.session.Result()
		header = "Result"
		if result != nil && result.Title != "" {
			header = result.Title
		}
		body = a.renderResultBody()
		copyLabel := "Copy to Clipboard"
		if a.copyFlash {
			copyLabel = "Copied!"
		}
		footer = FormatFooter("c", copyLabel, "r", "Regenerate", "Esc", "Dismiss")

	case appmodel.StateError:
		header = "Error"
		errMsg := a.session.ErrorMessage()
		if errMsg == "" {
			errMsg = "Something went wrong."
		}
		body = ErrorStyle.Render(errMsg)
		footer = FormatFooter("r", "Try Again", "Esc", "Close")
	}

	box := overlayFrame.Width(min(a.width-4, 72)).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render(header),
		"",
		body,
		"",
		StatusStyle.Render(footer),
	))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a AppView) renderRecordingBody() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", a.waitSpinner.View(), DimStyle.Render(formatElapsed(a.session.Elapsed()))))

	if echo := transcriptEcho(a.session.Transcript()); echo != "" {
		sb.WriteString("\n" + AccentStyle.Italic(true).Render(echo))
	}
	return sb.String()
}

func (a AppView) renderPreviewBody() string {
	var sb strings.Builder
	if !a.session.SpeechAvailable() {
		sb.WriteString(DimStyle.Render("Speech recognition not available. Type your command below.") + "\n\n")
	}
	sb.WriteString(a.commandArea.View())
	return sb.String()
}

func (a AppView) renderResultBody() string {
	result := a.session.Result()
	if result == nil {
		return ""
	}

	badge := StyleForCommandType(result.CommandType).Render(result.CommandType)
	return badge + "\n\n" + renderBlocks(result.Content)
}

// formatElapsed shows recording time as m:ss.
func formatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// transcriptEcho shows the live tail of the transcript while recording,
// quoted, capped at the last 80 runes.
func transcriptEcho(transcript string) string {
	if transcript == "" {
		return ""
	}
	runes := []rune(transcript)
	if len(runes) > 80 {
		return `"` + string(runes[len(runes)-80:]) + `..."`
	}
	return `"` + transcript + `"`
}
