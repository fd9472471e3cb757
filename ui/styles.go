package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	dangerColor  = lipgloss.Color("9")

	// Command-type badge colors. Generate shares the accent blue; the
	// default bucket gets its own pink so unclassified results stand out.
	generateColor = lipgloss.Color("12")
	rephraseColor = lipgloss.Color("13")
	researchColor = lipgloss.Color("14")
	otherColor    = lipgloss.Color("205")

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	AccentStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	FlashStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	badgeBase = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)
)

// StyleForCommandType maps a free-text command type onto one of four
// badge styles. Matching is case-insensitive; anything outside the three
// known categories gets the default bucket. Purely cosmetic.
func StyleForCommandType(commandType string) lipgloss.Style {
	switch strings.ToLower(commandType) {
	case "generate":
		return badgeBase.Foreground(generateColor)
	case "rephrase":
		return badgeBase.Foreground(rephraseColor)
	case "research":
		return badgeBase.Foreground(researchColor)
	default:
		return badgeBase.Foreground(otherColor)
	}
}

// FormatFooter formats alternating key/description pairs for status bars.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
