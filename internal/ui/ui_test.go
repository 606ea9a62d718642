package ui

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stillFrame struct{ img image.Image }

func (s stillFrame) LastFrame() image.Image { return s.img }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDownsampleFrame(t *testing.T) {
	cfg := PreviewConfig{Width: 16, Height: 4}
	red := color.RGBA{R: 200, G: 10, B: 20, A: 255}

	small := DownsampleFrame(solid(640, 360, red), cfg)
	assert.Equal(t, image.Rect(0, 0, 16, 8), small.Bounds())
	assert.Equal(t, red, small.RGBAAt(7, 3))

	// YCbCr frames, as kept by the renderer for I420, scale the same way.
	ycc := image.NewYCbCr(image.Rect(0, 0, 64, 32), image.YCbCrSubsampleRatio420)
	for i := range ycc.Y {
		ycc.Y[i] = 255
	}
	for i := range ycc.Cb {
		ycc.Cb[i], ycc.Cr[i] = 128, 128
	}
	white := DownsampleFrame(ycc, cfg)
	px := white.RGBAAt(0, 0)
	assert.Greater(t, px.R, uint8(250))
	assert.Greater(t, px.G, uint8(250))
	assert.Greater(t, px.B, uint8(250))
}

func TestRenderPreview(t *testing.T) {
	img := solid(3, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	out := RenderPreview(img)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4) // top border, two cell rows, bottom border
	assert.Equal(t, "┌───┐", lines[0])
	assert.Equal(t, "└───┘", lines[3])
	assert.Equal(t, 3, strings.Count(lines[1], "▀"))
	assert.Contains(t, lines[1], "\x1b[38;2;1;2;3m\x1b[48;2;1;2;3m▀")

	assert.Empty(t, RenderPreview(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestCountdownModel(t *testing.T) {
	m := NewCountdownModel("vc.ril.source → vc.ril.video_render", time.Second, stillFrame{solid(96, 48, color.RGBA{G: 255, A: 255})})
	assert.NotNil(t, m.Init())
	assert.InDelta(t, 0.0, m.Fraction(), 0.01)

	_, cmd := m.Update(tickMsg(m.startTime.Add(250 * time.Millisecond)))
	assert.NotNil(t, cmd, "ticks keep coming while running")
	assert.InDelta(t, 0.25, m.Fraction(), 1e-9)
	assert.NotEmpty(t, m.cached)

	view := m.View()
	assert.Contains(t, view, "25%")
	assert.Contains(t, view, "bench-conn")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "keys do not end the run")

	_, cmd = m.Update(runDoneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1.0, m.Fraction())
	assert.Contains(t, m.View(), "100%")
}

func TestCountdownModel_NoFrames(t *testing.T) {
	m := NewCountdownModel("run", 0, nil)
	m.Update(tickMsg(time.Now()))
	assert.Empty(t, m.cached)
	assert.Equal(t, 1.0, m.Fraction())

	m = NewCountdownModel("run", time.Second, stillFrame{})
	m.Update(tickMsg(time.Now()))
	assert.Empty(t, m.cached)
}

func TestCountdown_WaitsFullDuration(t *testing.T) {
	var out bytes.Buffer
	start := time.Now()
	err := Countdown(&out, "run", 60*time.Millisecond, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}
