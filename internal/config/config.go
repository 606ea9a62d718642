package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/linuxmatters/mmalbench/internal/fuzzy"
	"github.com/linuxmatters/mmalbench/internal/mmal"
)

// Frame defaults
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
	DefaultMsec   = 1000
)

// Camera settings
const (
	CameraNumUnset = -1 // leave the camera number at the component default

	PortPreview = 0
	PortVideo   = 1
	PortCapture = 2
	NumPorts    = 3 // vc.ril.camera exposes preview, video and capture outputs
)

var (
	ErrSourcePort     = errors.New("output port must be 0 for source source")
	ErrNotImplemented = errors.New("not implemented")
)

// Config is the validated benchmark setup. It is built once from the
// command line and not modified afterwards.
type Config struct {
	Encoding   Encoding
	Width      int
	Height     int
	Msec       int
	Source     Source
	Pattern    Pattern
	CameraNum  int
	OutputPort int
	Dest       Dest
	Conn       Conn
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Encoding:   EncodingI420,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Msec:       DefaultMsec,
		Source:     SourceSource,
		Pattern:    PatternWhite,
		CameraNum:  CameraNumUnset,
		OutputPort: PortPreview,
		Dest:       DestNull,
		Conn:       ConnTunnel,
	}
}

// Validate checks the combination of options before any component exists.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.Msec < 0 {
		return errors.Errorf("invalid duration %d ms", c.Msec)
	}
	if c.OutputPort < 0 || c.OutputPort >= NumPorts {
		return errors.Errorf("invalid output port %d (must be 0..%d)", c.OutputPort, NumPorts-1)
	}
	if c.Source == SourceSource && c.OutputPort != PortPreview {
		return ErrSourcePort
	}
	if c.Conn != ConnTunnel {
		return errors.Wrapf(ErrNotImplemented, "connection %s", c.Conn)
	}
	return nil
}

// Duration is the requested run time.
func (c Config) Duration() time.Duration {
	return time.Duration(c.Msec) * time.Millisecond
}

// Format is the port format shared by the source output and sink input.
func (c Config) Format() mmal.Format {
	return mmal.VideoFormat(c.Encoding.MMAL(), c.Width, c.Height)
}

// StartsCapture reports whether the camera port needs an explicit capture
// request to stream. The preview port streams as soon as it is connected.
func (c Config) StartsCapture() bool {
	return c.Source == SourceCamera && (c.OutputPort == PortVideo || c.OutputPort == PortCapture)
}

// ValueError reports an option value that did not resolve to a single
// table entry.
type ValueError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	switch {
	case errors.Is(e.Err, fuzzy.ErrAmbiguous):
		return "ambiguous " + e.Kind + ": " + e.Value
	case errors.Is(e.Err, fuzzy.ErrInvalidTable):
		return "invalid " + e.Kind + " table"
	}
	return "unknown " + e.Kind + ": " + e.Value
}

func (e *ValueError) Unwrap() error { return e.Err }

func parseEnum[T ~int](dst *T, kind string, table []string, text []byte) error {
	s := string(text)
	r := fuzzy.Match(table, s)
	if err := r.Err(); err != nil {
		return &ValueError{Kind: kind, Value: s, Err: err}
	}
	*dst = T(r.Index)
	return nil
}

func enumName[T ~int](v T, table []string) string {
	if v >= 0 && int(v) < len(table) {
		return table[v]
	}
	return "unknown"
}
