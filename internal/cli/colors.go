package cli

import "github.com/charmbracelet/lipgloss"

// Raspberry colour palette
// Shared across CLI output and the progress UI
var (
	// Core colours (dark to bright)
	Raspberry = lipgloss.Color("#C51A4A") // Raspberry red
	Berry     = lipgloss.Color("#E0457B") // Light berry
	Leaf      = lipgloss.Color("#75A928") // Leaf green
	Sprout    = lipgloss.Color("#A6D96A") // Light green

	// Accent colours
	Slate = lipgloss.Color("#8E9AAF") // Muted text
	Chalk = lipgloss.Color("#FFFFFF") // Values
)
