package bench

import (
	"time"

	"github.com/linuxmatters/mmalbench/internal/mmal"
)

// Stats are the counters of one port, read after the connection stopped.
type Stats struct {
	Label string // "source" or "dest"
	Port  string
	mmal.Statistics
	Elapsed time.Duration
}

// FramesPerSecond divides the frame count by the measured run time, not the
// requested one. A zero elapsed time gives zero.
func (s Stats) FramesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.FrameCount) / s.Elapsed.Seconds()
}

// BytesPerSecond is TotalBytes over the measured run time.
func (s Stats) BytesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalBytes) / s.Elapsed.Seconds()
}
