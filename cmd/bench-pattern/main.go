// bench-pattern is a standalone benchmark for the simulated source: it draws
// a test pattern and converts it to the port encoding, frame after frame.
// Designed to be called by hyperfine for statistical analysis.
//
// Usage:
//
//	bench-pattern [--iterations N] [-p PATTERN] [-e ENC] [-w WIDTH] [-h HEIGHT]
package main

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"

	"github.com/linuxmatters/mmalbench/internal/cli"
	"github.com/linuxmatters/mmalbench/internal/config"
	"github.com/linuxmatters/mmalbench/internal/mmal"
	"github.com/linuxmatters/mmalbench/internal/pattern"
)

type CLI struct {
	Iterations int             `default:"1000" help:"Number of frames to produce."`
	Pattern    config.Pattern  `short:"p" default:"swirly" help:"Pattern to draw."`
	Encoding   config.Encoding `short:"e" default:"i420" help:"Frame encoding (opaque frames are not converted)."`
	Width      int             `short:"w" default:"1280" help:"Frame width."`
	Height     int             `short:"h" default:"720" help:"Frame height."`
	Quiet      bool            `short:"q" help:"Do not print the result."`
	Help       bool            `short:"?" help:"Print this help."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var flags CLI
	parser, err := kong.New(&flags,
		kong.Name("bench-pattern"),
		kong.Description("Benchmark test pattern generation and conversion."),
		kong.NoDefaultHelp(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.WithHyphenPrefixedParameters(true),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}
	if flags.Help {
		if err := ctx.PrintUsage(false); err != nil {
			cli.PrintError(stderr, err.Error())
			return 1
		}
		return 0
	}
	if flags.Width <= 0 || flags.Height <= 0 || flags.Iterations <= 0 {
		cli.PrintError(stderr, "width, height and iterations must be positive")
		return 1
	}

	f := mmal.VideoFormat(flags.Encoding.MMAL(), flags.Width, flags.Height)
	gen := pattern.NewGenerator(flags.Pattern.MMAL(), flags.Width, flags.Height, 1)

	var buf []byte
	switch flags.Encoding {
	case config.EncodingI420:
		buf = make([]byte, pattern.I420Size(f.Width, f.Height))
	case config.EncodingRGBA:
		buf = make([]byte, pattern.RGBASize(f.Width, f.Height))
	}

	start := time.Now()
	for i := 0; i < flags.Iterations; i++ {
		img := gen.Next()
		switch flags.Encoding {
		case config.EncodingI420:
			pattern.ToI420(buf, img, f.Width, f.Height)
		case config.EncodingRGBA:
			pattern.ToRGBA(buf, img, f.Width)
		}
	}
	elapsed := time.Since(start)

	if !flags.Quiet {
		cli.PrintInfo(stdout, "pattern", flags.Pattern.String())
		cli.PrintInfo(stdout, "encoding", flags.Encoding.String())
		cli.PrintInfo(stdout, "frames", strconv.Itoa(flags.Iterations))
		cli.PrintInfo(stdout, "elapsed", cli.FormatDuration(elapsed))
		cli.PrintInfo(stdout, "frame/s", strconv.FormatFloat(float64(flags.Iterations)/elapsed.Seconds(), 'f', 1, 64))
	}
	return 0
}
