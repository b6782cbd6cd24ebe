package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/styles"
)

// RenderCard draws c as a bordered box no wider than width. A width of 0
// uses the default card width.
func RenderCard(c card.Card, width int) string {
	if width <= 0 || width > maxCardWidth {
		width = maxCardWidth
	}

	box := styles.CardStyle(c.Presence)
	inner := width - box.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	rows := []string{
		truncate(styles.NameStyle, c.Name, inner),
		styles.PresenceIndicator(c.Presence),
		"",
	}

	for i, line := range c.Lines() {
		if line == "" {
			continue
		}
		style := styles.DetailStyle
		if i == 0 {
			style = styles.HeadlineStyle
		}
		rows = append(rows, truncate(style, line, inner))
	}

	if c.Link != "" {
		rows = append(rows, "", truncate(styles.LinkStyle, c.Link, inner))
	}

	return box.Width(inner + box.GetHorizontalPadding()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// truncate renders s on a single line cut to width cells.
func truncate(style lipgloss.Style, s string, width int) string {
	return style.MaxWidth(width).Inline(true).Render(s)
}
