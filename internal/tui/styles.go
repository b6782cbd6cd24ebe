// Package tui implements the Bubble Tea live card for nowcard.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/nowcard/internal/styles"
)

// maxCardWidth keeps the card compact on wide terminals.
const maxCardWidth = 64

var (
	// Spinner style.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue)

	// Muted text for loading and help lines.
	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	helpStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			PaddingLeft(1).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.ColorRed).
			PaddingLeft(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen).
			PaddingLeft(1)
)
