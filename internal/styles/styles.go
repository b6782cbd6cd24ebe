// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/nowcard/internal/core/presence"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
	ColorRed    = lipgloss.Color("#f7768e")
)

// Presence indicator symbols, one per state.
var presenceSymbols = map[presence.State]string{
	presence.Online:       "●",
	presence.Idle:         "◐",
	presence.DoNotDisturb: "⊖",
	presence.Offline:      "○",
	presence.Streaming:    "▶",
}

// PresenceColor returns the indicator color for s.
func PresenceColor(s presence.State) lipgloss.Color {
	return lipgloss.Color(s.Color())
}

// PresenceIndicator renders the colored symbol and label for s.
func PresenceIndicator(s presence.State) string {
	symbol, ok := presenceSymbols[s]
	if !ok {
		symbol = presenceSymbols[presence.Offline]
	}
	return lipgloss.NewStyle().
		Foreground(PresenceColor(s)).
		Bold(true).
		Render(symbol + " " + s.Label())
}

// NameStyle styles the user's display name.
var NameStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Bold(true)

// HeadlineStyle styles the first, most prominent activity line.
var HeadlineStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// DetailStyle styles the secondary activity lines.
var DetailStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// LinkStyle styles the card link.
var LinkStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Underline(true)

// CardStyle returns the bordered box for a card, tinted by presence.
func CardStyle(s presence.State) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PresenceColor(s)).
		Padding(0, 2)
}
