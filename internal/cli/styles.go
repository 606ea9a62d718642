package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AppName is shown in the help, version and progress headers.
const AppName = "bench-conn"

// Styles
var (
	// Title style - bold raspberry
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Raspberry)

	// Subtitle style - muted
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Slate).
			Italic(true)

	// Section header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Leaf)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Raspberry)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(Slate)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Chalk)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Raspberry).
			Padding(0, 1)
)

// PrintVersion prints version information
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render(AppName))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintInfo prints a key: value line
func PrintInfo(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(w io.Writer, title string) {
	fmt.Fprintln(w, HeaderStyle.Render(title))
}

// PrintBox prints content in a styled box
func PrintBox(w io.Writer, content string) {
	fmt.Fprintln(w, BoxStyle.Render(content))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
