package mmal

// ParameterID identifies a port parameter.
type ParameterID int

const (
	ParamSourcePattern ParameterID = iota + 1
	ParamCameraNum
	ParamCapture
)

func (id ParameterID) String() string {
	switch id {
	case ParamSourcePattern:
		return "VIDEO_SOURCE_PATTERN"
	case ParamCameraNum:
		return "CAMERA_NUM"
	case ParamCapture:
		return "CAPTURE"
	}
	return "UNKNOWN"
}

// Parameter is a value set on a port.
type Parameter interface {
	ID() ParameterID
}

// Pattern is a frame pattern produced by vc.ril.source.
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

var patternNames = [...]string{
	PatternWhite:    "white",
	PatternBlack:    "black",
	PatternDiagonal: "diagonal",
	PatternNoise:    "noise",
	PatternRandom:   "random",
	PatternColour:   "colour",
	PatternBlocks:   "blocks",
	PatternSwirly:   "swirly",
}

func (p Pattern) String() string {
	if p >= 0 && int(p) < len(patternNames) {
		return patternNames[p]
	}
	return "unknown"
}

// SourcePattern selects the pattern of a vc.ril.source output port.
type SourcePattern struct {
	Pattern Pattern
}

func (SourcePattern) ID() ParameterID { return ParamSourcePattern }

// CameraNum selects the sensor a vc.ril.camera instance opens. It is set on
// the control port.
type CameraNum struct {
	Index int32
}

func (CameraNum) ID() ParameterID { return ParamCameraNum }

// Capture starts or stops streaming on a camera video or still port.
type Capture struct {
	Enabled bool
}

func (Capture) ID() ParameterID { return ParamCapture }
