package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// PreviewConfig holds configuration for the frame preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in terminal cells
}

// DefaultPreviewConfig returns a sensible default preview size
// Using 48x12 cells, each cell two pixels tall, for a 16:9 frame
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Width:  48,
		Height: 12,
	}
}

// DownsampleFrame scales any frame down to twice the preview height, so every
// terminal cell shows two pixels with a half-block glyph. Source pixels are
// averaged by the approximate bilinear scaler.
func DownsampleFrame(frame image.Image, config PreviewConfig) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, frame.Bounds(), draw.Src, nil)
	return dst
}

// RenderPreview converts a downsampled frame to a string using ANSI 24-bit
// colour: the upper pixel of each cell is the foreground of "▀", the lower
// pixel its background.
func RenderPreview(img *image.RGBA) string {
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	var s strings.Builder
	s.WriteString("┌" + strings.Repeat("─", b.Dx()) + "┐\n")
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		s.WriteString("│")
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := img.RGBAAt(x, y+1)
			s.WriteString(cell(top, bottom))
		}
		s.WriteString("\x1b[0m│\n")
	}
	s.WriteString("└" + strings.Repeat("─", b.Dx()) + "┘")
	return s.String()
}

func cell(top, bottom color.RGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
		top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
}
