// Package mmal describes the slice of the Multi-Media Abstraction Layer that
// the benchmark drives: components, their ports, and tunnelled connections.
//
// Implementations live in sub-packages and register themselves with
// Register. The VideoCore binding needs the "mmal" build tag; the simulated
// library is always available.
package mmal

import (
	"fmt"
)

// Well-known component names.
const (
	ComponentSource      = "vc.ril.source"
	ComponentCamera      = "vc.ril.camera"
	ComponentNullSink    = "vc.null_sink"
	ComponentVideoRender = "vc.ril.video_render"
)

// Alignment the hardware expects for frame buffers.
const (
	WidthAlign  = 32
	HeightAlign = 16
)

// Encoding is a little-endian FourCC pixel encoding.
type Encoding uint32

// FourCC packs a four character code.
func FourCC(code string) Encoding {
	var b [4]byte
	copy(b[:], code)
	for i := len(code); i < 4; i++ {
		b[i] = ' '
	}
	return Encoding(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

var (
	EncodingI420   = FourCC("I420")
	EncodingRGBA   = FourCC("RGBA")
	EncodingOpaque = FourCC("OPQV")
)

func (e Encoding) String() string {
	b := []byte{byte(e), byte(e >> 8), byte(e >> 16), byte(e >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(e))
		}
	}
	return string(b)
}

// Rect is a crop rectangle in pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Format is the elementary video format of a port.
type Format struct {
	Encoding Encoding
	Width    int
	Height   int
	Crop     Rect
}

// AlignUp rounds v up to a multiple of align.
func AlignUp(v, align int) int {
	return (v + align - 1) / align * align
}

// VideoFormat builds the format for a frame of the given visible size: the
// buffer is padded to hardware alignment and cropped back to width x height.
func VideoFormat(enc Encoding, width, height int) Format {
	return Format{
		Encoding: enc,
		Width:    AlignUp(width, WidthAlign),
		Height:   AlignUp(height, HeightAlign),
		Crop:     Rect{X: 0, Y: 0, Width: width, Height: height},
	}
}

// Statistics are the counters kept by a port.
type Statistics struct {
	BufferCount     uint32
	FrameCount      uint32
	FramesSkipped   uint32
	FramesDiscarded uint32
	TotalBytes      int64
}

// PortType identifies the role of a port on its component.
type PortType int

const (
	PortControl PortType = iota
	PortInput
	PortOutput
)

func (t PortType) String() string {
	switch t {
	case PortControl:
		return "control"
	case PortInput:
		return "in"
	case PortOutput:
		return "out"
	}
	return "unknown"
}

// Buffer is a buffer header lent to a callback. The callback must Release it.
type Buffer interface {
	Release()
}

// ControlCallback receives events from a component's control port. It runs
// on a library thread and must not block.
type ControlCallback func(port Port, buf Buffer)

// ConnectionCallback is invoked by the library when a connection has buffers
// to process or changes state. It runs on a library thread.
type ConnectionCallback func(conn Connection)

// ConnectionFlags select how a connection moves buffers.
type ConnectionFlags uint32

const (
	FlagTunnelling ConnectionFlags = 1 << iota
	FlagAllocationOnInput
	FlagAllocationOnOutput
)

// Port is an input, output or control endpoint of a component.
type Port interface {
	Name() string
	Type() PortType
	Index() int
	Enable(cb ControlCallback) error
	Disable() error
	Format() Format
	// Commit applies f to the port.
	Commit(f Format) error
	SetParameter(p Parameter) error
	Statistics() (Statistics, error)
}

// Component is an instantiated library component.
type Component interface {
	Name() string
	Control() Port
	Input(index int) (Port, error)
	Output(index int) (Port, error)
	Enable() error
	Disable() error
	Destroy() error
}

// Connection moves buffers from an output port to an input port.
type Connection interface {
	Name() string
	SetCallback(cb ConnectionCallback)
	Enable() error
	Disable() error
	Destroy() error
}

// Library creates components and connections.
type Library interface {
	CreateComponent(name string) (Component, error)
	Connect(out, in Port, flags ConnectionFlags) (Connection, error)
	Close() error
}
