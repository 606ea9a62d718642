// Package pattern draws the test patterns produced by the simulated
// vc.ril.source component.
package pattern

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/linuxmatters/mmalbench/internal/mmal"
)

const (
	stripeWidth = 32 // diagonal stripe period in pixels
	blockSize   = 64 // checkerboard square size
	stripeSpeed = 4  // diagonal pixels moved per frame
	swirlArms   = 6
)

// Colour bars, left to right.
var colourBars = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255}, // white
	{R: 255, G: 255, B: 0, A: 255},   // yellow
	{R: 0, G: 255, B: 255, A: 255},   // cyan
	{R: 0, G: 255, B: 0, A: 255},     // green
	{R: 255, G: 0, B: 255, A: 255},   // magenta
	{R: 255, G: 0, B: 0, A: 255},     // red
	{R: 0, G: 0, B: 255, A: 255},     // blue
	{R: 0, G: 0, B: 0, A: 255},       // black
}

// Generator renders successive frames of one pattern. It is not safe for
// concurrent use.
type Generator struct {
	pattern mmal.Pattern
	img     *image.RGBA
	rng     *rand.Rand
	frame   int
	static  bool
	drawn   bool

	// swirly keeps per-pixel polar coordinates so frames only need a phase
	// shift.
	angle  []float32
	radius []float32
}

// NewGenerator creates a generator for width x height frames. The seed
// makes noise patterns reproducible.
func NewGenerator(p mmal.Pattern, width, height int, seed uint64) *Generator {
	g := &Generator{
		pattern: p,
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	switch p {
	case mmal.PatternWhite, mmal.PatternBlack, mmal.PatternColour, mmal.PatternBlocks:
		g.static = true
	case mmal.PatternSwirly:
		g.initSwirl()
	}
	return g
}

// Static reports whether every frame is identical.
func (g *Generator) Static() bool { return g.static }

// Next returns the next frame. The image is reused by later calls.
func (g *Generator) Next() *image.RGBA {
	if g.static && g.drawn {
		return g.img
	}
	switch g.pattern {
	case mmal.PatternWhite:
		fill(g.img, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	case mmal.PatternBlack:
		fill(g.img, color.RGBA{A: 255})
	case mmal.PatternDiagonal:
		g.drawDiagonal()
	case mmal.PatternNoise:
		g.drawNoise(true)
	case mmal.PatternRandom:
		g.drawNoise(false)
	case mmal.PatternColour:
		g.drawColourBars()
	case mmal.PatternBlocks:
		g.drawBlocks()
	case mmal.PatternSwirly:
		g.drawSwirl()
	default:
		fill(g.img, color.RGBA{A: 255})
	}
	g.drawn = true
	g.frame++
	return g.img
}

func fill(img *image.RGBA, c color.RGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func (g *Generator) drawDiagonal() {
	b := g.img.Bounds()
	shift := g.frame * stripeSpeed
	for y := 0; y < b.Dy(); y++ {
		row := g.img.Pix[y*g.img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			v := uint8(0)
			if ((x+y+shift)/stripeWidth)%2 == 0 {
				v = 255
			}
			o := x * 4
			row[o] = v
			row[o+1] = v
			row[o+2] = v
			row[o+3] = 255
		}
	}
}

func (g *Generator) drawNoise(grey bool) {
	pix := g.img.Pix
	for i := 0; i < len(pix); i += 4 {
		v := g.rng.Uint32()
		if grey {
			l := uint8(v)
			pix[i] = l
			pix[i+1] = l
			pix[i+2] = l
		} else {
			pix[i] = uint8(v)
			pix[i+1] = uint8(v >> 8)
			pix[i+2] = uint8(v >> 16)
		}
		pix[i+3] = 255
	}
}

func (g *Generator) drawColourBars() {
	b := g.img.Bounds()
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		row := g.img.Pix[y*g.img.Stride:]
		for x := 0; x < w; x++ {
			c := colourBars[x*len(colourBars)/w]
			o := x * 4
			row[o] = c.R
			row[o+1] = c.G
			row[o+2] = c.B
			row[o+3] = 255
		}
	}
}

func (g *Generator) drawBlocks() {
	b := g.img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := g.img.Pix[y*g.img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			v := uint8(0)
			if (x/blockSize+y/blockSize)%2 == 0 {
				v = 255
			}
			o := x * 4
			row[o] = v
			row[o+1] = v
			row[o+2] = v
			row[o+3] = 255
		}
	}
}

func (g *Generator) initSwirl() {
	b := g.img.Bounds()
	w, h := b.Dx(), b.Dy()
	g.angle = make([]float32, w*h)
	g.radius = make([]float32, w*h)
	cx, cy := float64(w)/2, float64(h)/2
	norm := math.Hypot(cx, cy)
	if norm == 0 {
		norm = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			g.angle[y*w+x] = float32(math.Atan2(dy, dx))
			g.radius[y*w+x] = float32(math.Hypot(dx, dy) / norm)
		}
	}
}

func (g *Generator) drawSwirl() {
	b := g.img.Bounds()
	w, h := b.Dx(), b.Dy()
	phase := float64(g.frame) * 0.1
	for y := 0; y < h; y++ {
		row := g.img.Pix[y*g.img.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			t := float64(g.angle[i])*swirlArms + float64(g.radius[i])*4*math.Pi - phase
			o := x * 4
			row[o] = uint8(127.5 + 127.5*math.Sin(t))
			row[o+1] = uint8(127.5 + 127.5*math.Sin(t+2*math.Pi/3))
			row[o+2] = uint8(127.5 + 127.5*math.Sin(t+4*math.Pi/3))
			row[o+3] = 255
		}
	}
}
