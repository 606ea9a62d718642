package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linuxmatters/mmalbench/internal/bench"
	"github.com/linuxmatters/mmalbench/internal/config"
)

// Field is one "key: value" line of output.
type Field struct {
	Key   string
	Value string
}

// Summary lists the effective configuration in the order it is printed.
func Summary(cfg config.Config) []Field {
	return []Field{
		{"encoding", fmt.Sprintf("%s (%s)", cfg.Encoding, cfg.Encoding.MMAL())},
		{"width", strconv.Itoa(cfg.Width)},
		{"height", strconv.Itoa(cfg.Height)},
		{"msec", strconv.Itoa(cfg.Msec)},
		{"source", fmt.Sprintf("%s (%s)", cfg.Source, cfg.Source.Component())},
		{"pattern", cfg.Pattern.String()},
		{"camera_num", strconv.Itoa(cfg.CameraNum)},
		{"source_output_port", strconv.Itoa(cfg.OutputPort)},
		{"dest", fmt.Sprintf("%s (%s)", cfg.Dest, cfg.Dest.Component())},
		{"conn", cfg.Conn.String()},
	}
}

// StatsFields lists the counters of one port and the rates derived from
// the measured run time.
func StatsFields(s bench.Stats) []Field {
	return []Field{
		{"buffer_count", strconv.FormatUint(uint64(s.BufferCount), 10)},
		{"frame_count", strconv.FormatUint(uint64(s.FrameCount), 10)},
		{"frames_skipped", strconv.FormatUint(uint64(s.FramesSkipped), 10)},
		{"frames_discarded", strconv.FormatUint(uint64(s.FramesDiscarded), 10)},
		{"total_bytes", strconv.FormatInt(s.TotalBytes, 10)},
		{"frame/s", fmt.Sprintf("%f", s.FramesPerSecond())},
		{"B/s", fmt.Sprintf("%e", s.BytesPerSecond())},
	}
}

// PrintSummary prints the configuration before the run starts.
func PrintSummary(w io.Writer, cfg config.Config) {
	for _, f := range Summary(cfg) {
		PrintInfo(w, f.Key, f.Value)
	}
}

// PrintReport prints one box per port that reported statistics.
func PrintReport(w io.Writer, r *bench.Report) {
	PrintSection(w, "Results")
	PrintInfo(w, "run", r.RunID.String())
	PrintInfo(w, "elapsed", FormatDuration(r.Elapsed))

	for _, s := range r.Stats {
		var b strings.Builder
		b.WriteString(HeaderStyle.Render(s.Label))
		if s.Port != "" {
			b.WriteString(" ")
			b.WriteString(SubtitleStyle.Render(s.Port))
		}
		b.WriteString("\n")

		fields := StatsFields(s)
		width := 0
		for _, f := range fields {
			width = max(width, len(f.Key))
		}
		for i, f := range fields {
			b.WriteString(KeyStyle.Render(f.Key + ":" + strings.Repeat(" ", width-len(f.Key)+1)))
			b.WriteString(ValueStyle.Render(f.Value))
			if f.Key == "total_bytes" && s.TotalBytes >= 1024 {
				b.WriteString(" " + SubtitleStyle.Render("("+FormatBytes(s.TotalBytes)+")"))
			}
			if i < len(fields)-1 {
				b.WriteString("\n")
			}
		}
		PrintBox(w, b.String())
	}
}
