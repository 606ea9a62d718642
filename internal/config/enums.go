package config

import (
	"github.com/linuxmatters/mmalbench/internal/mmal"
)

// Encoding of the frames moved through the connection.
type Encoding int

const (
	EncodingI420 Encoding = iota
	EncodingRGBA
	EncodingOpaque
)

var (
	EncodingTable  = []string{"i420", "rgba", "opaque"}
	encodingToMMAL = []mmal.Encoding{mmal.EncodingI420, mmal.EncodingRGBA, mmal.EncodingOpaque}
)

func (e Encoding) String() string { return enumName(e, EncodingTable) }

// MMAL returns the FourCC of the encoding.
func (e Encoding) MMAL() mmal.Encoding { return encodingToMMAL[e] }

func (e *Encoding) UnmarshalText(text []byte) error {
	return parseEnum(e, "encoding", EncodingTable, text)
}

// Source selects the component producing frames.
type Source int

const (
	SourceSource Source = iota
	SourceCamera
)

var (
	SourceTable     = []string{"source", "camera"}
	sourceComponent = []string{mmal.ComponentSource, mmal.ComponentCamera}
)

func (s Source) String() string { return enumName(s, SourceTable) }

// Component is the library component name of the source.
func (s Source) Component() string { return sourceComponent[s] }

func (s *Source) UnmarshalText(text []byte) error {
	return parseEnum(s, "source", SourceTable, text)
}

// Pattern drawn by the synthetic source.
type Pattern int

const (
	PatternWhite Pattern = iota
	PatternBlack
	PatternDiagonal
	PatternNoise
	PatternRandom
	PatternColour
	PatternBlocks
	PatternSwirly
)

var (
	PatternTable  = []string{"white", "black", "diagonal", "noise", "random", "colour", "blocks", "swirly"}
	patternToMMAL = []mmal.Pattern{
		mmal.PatternWhite,
		mmal.PatternBlack,
		mmal.PatternDiagonal,
		mmal.PatternNoise,
		mmal.PatternRandom,
		mmal.PatternColour,
		mmal.PatternBlocks,
		mmal.PatternSwirly,
	}
)

func (p Pattern) String() string { return enumName(p, PatternTable) }

// MMAL returns the library pattern value.
func (p Pattern) MMAL() mmal.Pattern { return patternToMMAL[p] }

func (p *Pattern) UnmarshalText(text []byte) error {
	return parseEnum(p, "pattern", PatternTable, text)
}

// Dest selects the component consuming frames.
type Dest int

const (
	DestNull Dest = iota
	DestRender
)

var (
	DestTable     = []string{"null", "render"}
	destComponent = []string{mmal.ComponentNullSink, mmal.ComponentVideoRender}
)

func (d Dest) String() string { return enumName(d, DestTable) }

// Component is the library component name of the sink.
func (d Dest) Component() string { return destComponent[d] }

func (d *Dest) UnmarshalText(text []byte) error {
	return parseEnum(d, "dest", DestTable, text)
}

// Conn is the connection method. Only tunnelling is wired up.
type Conn int

const (
	ConnTunnel Conn = iota
	ConnCallback
	ConnQueue
)

var ConnTable = []string{"tunnel", "callback", "queue"}

func (c Conn) String() string { return enumName(c, ConnTable) }

func (c *Conn) UnmarshalText(text []byte) error {
	return parseEnum(c, "conn", ConnTable, text)
}
