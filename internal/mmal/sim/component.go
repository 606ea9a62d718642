package sim

import (
	"fmt"
	"image"
	"sync"

	"github.com/linuxmatters/mmalbench/internal/mmal"
)

type kind int

const (
	kindSource kind = iota
	kindCamera
	kindNullSink
	kindRender
)

type component struct {
	lib     *Library
	name    string
	kind    kind
	control *port
	inputs  []*port
	outputs []*port

	mu        sync.Mutex
	enabled   bool
	destroyed bool
	cameraNum int32

	// last frame shown by vc.ril.video_render
	frameMu   sync.Mutex
	lastFrame []byte
	lastFmt   mmal.Format
}

func newComponent(l *Library, name string, k kind, inputs, outputs int) *component {
	c := &component{lib: l, name: name, kind: k}
	c.control = newPort(c, mmal.PortControl, 0)
	for i := 0; i < inputs; i++ {
		c.inputs = append(c.inputs, newPort(c, mmal.PortInput, i))
	}
	for i := 0; i < outputs; i++ {
		c.outputs = append(c.outputs, newPort(c, mmal.PortOutput, i))
	}
	return c
}

func (c *component) Name() string { return c.name }

func (c *component) Control() mmal.Port { return c.control }

func (c *component) Input(index int) (mmal.Port, error) {
	if index < 0 || index >= len(c.inputs) {
		return nil, mmal.Check(fmt.Sprintf("%s input %d", c.name, index), mmal.ENXIO)
	}
	return c.inputs[index], nil
}

func (c *component) Output(index int) (mmal.Port, error) {
	if index < 0 || index >= len(c.outputs) {
		return nil, mmal.Check(fmt.Sprintf("%s output %d", c.name, index), mmal.ENXIO)
	}
	return c.outputs[index], nil
}

func (c *component) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return mmal.Check("mmal_component_enable", mmal.EINVAL)
	}
	c.enabled = true
	return nil
}

func (c *component) Disable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return mmal.Check("mmal_component_disable", mmal.EINVAL)
	}
	c.enabled = false
	return nil
}

func (c *component) isEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Destroy refuses to release a component that still has a connection
// attached to one of its ports.
func (c *component) Destroy() error {
	const op = "mmal_component_destroy"

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return mmal.Check(op, mmal.EINVAL)
	}
	for _, p := range append(append([]*port{}, c.inputs...), c.outputs...) {
		if p.connected() {
			return mmal.Check(op, mmal.EISCONN)
		}
	}

	c.control.mu.Lock()
	c.control.enabled = false
	c.control.cb = nil
	c.control.mu.Unlock()

	c.enabled = false
	c.destroyed = true
	c.lib.forget(c)
	c.lib.log.Debugf("destroyed component %s", c.name)
	return nil
}

// supportsStatistics matches the firmware: only the pattern source output
// and the renderer input count frames.
func (c *component) supportsStatistics(p *port) bool {
	switch c.kind {
	case kindSource:
		return p.typ == mmal.PortOutput
	case kindRender:
		return p.typ == mmal.PortInput
	}
	return false
}

func (c *component) setCameraNum(index int32) error {
	if index < 0 || int(index) >= c.lib.opts.Cameras {
		return mmal.Check(fmt.Sprintf("set camera_num %d", index), mmal.EINVAL)
	}
	c.mu.Lock()
	c.cameraNum = index
	c.mu.Unlock()
	return nil
}

func (c *component) keepFrame(data []byte, f mmal.Format) {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	if len(c.lastFrame) != len(data) {
		c.lastFrame = make([]byte, len(data))
	}
	copy(c.lastFrame, data)
	c.lastFmt = f
}

// LastFrame returns a copy of the frame most recently shown by a
// vc.ril.video_render component, cropped to the visible area. Other
// components, opaque frames and renderers that have shown nothing return nil.
func (c *component) LastFrame() image.Image {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	if c.lastFrame == nil {
		return nil
	}
	f := c.lastFmt
	rect := image.Rect(0, 0, f.Crop.Width, f.Crop.Height)
	data := append([]byte(nil), c.lastFrame...)

	switch f.Encoding {
	case mmal.EncodingI420:
		ySize := f.Width * f.Height
		cSize := (f.Width / 2) * (f.Height / 2)
		return &image.YCbCr{
			Y:              data[:ySize],
			Cb:             data[ySize : ySize+cSize],
			Cr:             data[ySize+cSize : ySize+2*cSize],
			YStride:        f.Width,
			CStride:        f.Width / 2,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           rect,
		}
	case mmal.EncodingRGBA:
		return &image.RGBA{Pix: data, Stride: f.Width * 4, Rect: rect}
	}
	return nil
}

var _ mmal.Component = (*component)(nil)
