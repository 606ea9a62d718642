package main

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/linuxmatters/mmalbench/internal/bench"
	"github.com/linuxmatters/mmalbench/internal/cli"
	"github.com/linuxmatters/mmalbench/internal/config"
	"github.com/linuxmatters/mmalbench/internal/logging"
	"github.com/linuxmatters/mmalbench/internal/mmal"
	_ "github.com/linuxmatters/mmalbench/internal/mmal/sim"
	"github.com/linuxmatters/mmalbench/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

// CLI mirrors the option letters of the MMAL example tools. Help is on -?
// because -h is the frame height.
type CLI struct {
	Encoding config.Encoding `short:"e" placeholder:"ENC" default:"i420" help:"Encoding of a frame, one of: ${encodings}."`
	Width    int             `short:"w" placeholder:"WIDTH" default:"${width}" help:"Width of a frame to produce."`
	Height   int             `short:"h" placeholder:"HEIGHT" default:"${height}" help:"Height of a frame to produce."`
	Time     int             `short:"t" placeholder:"MSEC" default:"${msec}" help:"Run the connection for MSEC milliseconds."`

	Source  config.Source  `short:"s" placeholder:"SOURCE" default:"source" group:"mmal" help:"Source component, one of: ${sources}."`
	Pattern config.Pattern `short:"p" placeholder:"PATTERN" default:"white" group:"mmal" help:"Source pattern, one of: ${patterns}."`
	Camera  int            `short:"n" placeholder:"CAMERA" default:"-1" group:"mmal" help:"Camera number to use, -1 leaves it unset."`
	Port    int            `short:"o" placeholder:"PORT" default:"0" group:"mmal" help:"Camera output port, 0:preview 1:video 2:capture."`
	Dest    config.Dest    `short:"d" placeholder:"DEST" default:"null" group:"mmal" help:"Destination component, one of: ${dests}."`
	Conn    config.Conn    `short:"c" placeholder:"CONN" default:"tunnel" group:"mmal" help:"Connection method, one of: ${conns}."`

	Backend  string `placeholder:"NAME" default:"${backend}" enum:"${backends}" group:"tool" help:"Library backend, one of: ${backends}."`
	Progress bool   `group:"tool" help:"Show a countdown and frame preview during the run."`
	Verbose  bool   `group:"tool" help:"Log library callbacks."`
	Version  bool   `group:"tool" help:"Show version information."`
	Help     bool   `short:"?" group:"tool" help:"Print this help."`
}

// Config converts parsed flags into a benchmark configuration.
func (c *CLI) Config() config.Config {
	return config.Config{
		Encoding:   c.Encoding,
		Width:      c.Width,
		Height:     c.Height,
		Msec:       c.Time,
		Source:     c.Source,
		Pattern:    c.Pattern,
		CameraNum:  c.Camera,
		OutputPort: c.Port,
		Dest:       c.Dest,
		Conn:       c.Conn,
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var flags CLI
	parser, err := kong.New(&flags,
		kong.Name(cli.AppName),
		kong.Description("Measure how fast MMAL moves frames from a source component to a sink."),
		kong.NoDefaultHelp(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.WithHyphenPrefixedParameters(true),
		kong.ExplicitGroups([]kong.Group{
			{Key: "mmal", Title: "MMAL component options"},
			{Key: "tool", Title: "Tool options"},
		}),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
		kong.Vars{
			"encodings": strings.Join(config.EncodingTable, ", "),
			"sources":   strings.Join(config.SourceTable, ", "),
			"patterns":  strings.Join(config.PatternTable, ", "),
			"dests":     strings.Join(config.DestTable, ", "),
			"conns":     strings.Join(config.ConnTable, ", "),
			"width":     strconv.Itoa(config.DefaultWidth),
			"height":    strconv.Itoa(config.DefaultHeight),
			"msec":      strconv.Itoa(config.DefaultMsec),
			"backend":   mmal.DefaultBackend(),
			"backends":  strings.Join(mmal.Backends(), ","),
		},
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

	// Handle help and version flags
	if flags.Help {
		if err := ctx.PrintUsage(false); err != nil {
			cli.PrintError(stderr, err.Error())
			return 1
		}
		return 0
	}
	if flags.Version {
		cli.PrintVersion(stdout, version)
		return 0
	}

	logging.Configure(stderr, flags.Verbose)

	cfg := flags.Config()
	cli.PrintSummary(stdout, cfg)

	if err := benchmark(flags, cfg, stdout); err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}
	return 0
}

func benchmark(flags CLI, cfg config.Config, stdout io.Writer) error {
	// Reject bad combinations before opening the library
	if err := cfg.Validate(); err != nil {
		return err
	}

	lib, err := mmal.Open(flags.Backend)
	if err != nil {
		return err
	}
	defer lib.Close()

	opts := bench.Options{Log: logging.NewLogger("bench")}
	if flags.Progress {
		label := cfg.Source.Component() + " → " + cfg.Dest.Component()
		opts.Wait = func(d time.Duration, dest mmal.Component) {
			frames, _ := dest.(ui.FrameSource)
			if err := ui.Countdown(stdout, label, d, frames); err != nil {
				opts.Log.Warnf("progress display failed: %v", err)
			}
		}
	}

	report, err := bench.Run(lib, cfg, opts)
	if report != nil {
		cli.PrintReport(stdout, report)
	}
	return err
}
