package ui

import (
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/mmalbench/internal/cli"
)

// refreshInterval is how often the countdown and preview redraw.
const refreshInterval = 100 * time.Millisecond

// FrameSource is implemented by sink components that keep the last frame
// they displayed.
type FrameSource interface {
	LastFrame() image.Image
}

// tickMsg redraws the countdown
type tickMsg time.Time

// runDoneMsg is sent once the run time has elapsed
type runDoneMsg struct{}

// CountdownModel shows the time left in a benchmark run and, when the sink
// keeps its frames, a small preview of what it is receiving.
type CountdownModel struct {
	progressBar progress.Model
	total       time.Duration
	startTime   time.Time
	now         time.Time
	label       string

	frames  FrameSource
	preview PreviewConfig
	cached  string

	done bool
}

// NewCountdownModel creates a countdown for a run of length total. frames
// may be nil.
func NewCountdownModel(label string, total time.Duration, frames FrameSource) *CountdownModel {
	p := progress.New(
		progress.WithGradient(string(cli.Raspberry), string(cli.Leaf)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	now := time.Now()
	return &CountdownModel{
		progressBar: p,
		total:       total,
		startTime:   now,
		now:         now,
		label:       label,
		frames:      frames,
		preview:     DefaultPreviewConfig(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the redraw ticker
func (m *CountdownModel) Init() tea.Cmd {
	return tick()
}

// Update handles messages. Keys are ignored: a run cannot be cut short.
func (m *CountdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		m.refreshPreview()
		if m.done {
			return m, nil
		}
		return m, tick()

	case runDoneMsg:
		m.done = true
		m.now = m.startTime.Add(m.total)
		m.refreshPreview()
		return m, tea.Quit
	}

	return m, nil
}

func (m *CountdownModel) refreshPreview() {
	if m.frames == nil {
		return
	}
	if img := m.frames.LastFrame(); img != nil {
		m.cached = RenderPreview(DownsampleFrame(img, m.preview))
	}
}

// Fraction is the share of the run that has elapsed, in [0, 1].
func (m *CountdownModel) Fraction() float64 {
	if m.done || m.total <= 0 {
		return 1
	}
	f := float64(m.now.Sub(m.startTime)) / float64(m.total)
	return max(0, min(f, 1))
}

// View renders the UI
func (m *CountdownModel) View() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.Raspberry).
		Render(cli.AppName)
	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(cli.Berry).Render(m.label))
	s.WriteString("\n\n")

	percent := m.Fraction()
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n")

	elapsed := time.Duration(percent * float64(m.total))
	timing := fmt.Sprintf("Time: %s / %s", cli.FormatDuration(elapsed), cli.FormatDuration(m.total))
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(timing))

	if m.cached != "" {
		s.WriteString("\n\n")
		s.WriteString(m.cached)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.Raspberry).
		Padding(1, 2).
		Render(s.String())
}

// Countdown blocks for exactly d while drawing the countdown to w. A UI
// failure does not shorten the wait.
func Countdown(w io.Writer, label string, d time.Duration, frames FrameSource) error {
	start := time.Now()
	m := NewCountdownModel(label, d, frames)
	p := tea.NewProgram(m, tea.WithOutput(w), tea.WithInput(nil))

	timer := time.AfterFunc(d, func() { p.Send(runDoneMsg{}) })
	defer timer.Stop()

	_, err := p.Run()
	if rest := d - time.Since(start); rest > 0 {
		time.Sleep(rest)
	}
	return err
}
