// Package bench drives one connection benchmark: it builds a source and a
// sink component, tunnels one into the other for a fixed time and reads the
// port statistics back.
package bench

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/linuxmatters/mmalbench/internal/config"
	"github.com/linuxmatters/mmalbench/internal/logging"
	"github.com/linuxmatters/mmalbench/internal/mmal"
)

// Options hook the driver into its environment. The zero value logs to the
// "bench" scope, sleeps for the run time and reads the wall clock.
type Options struct {
	Log logging.LeveledLogger

	// Wait blocks for d while the connection runs. dest is the sink
	// component, for waiters that show what it receives.
	Wait func(d time.Duration, dest mmal.Component)

	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = logging.NewLogger("bench")
	}
	if o.Wait == nil {
		o.Wait = func(d time.Duration, _ mmal.Component) { time.Sleep(d) }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Report is the outcome of a run.
type Report struct {
	RunID   uuid.UUID
	Elapsed time.Duration
	Stats   []Stats
}

type driver struct {
	lib  mmal.Library
	cfg  config.Config
	opts Options
	log  logging.LeveledLogger

	cleanup teardown
}

// Run executes the benchmark described by cfg against lib. Every component
// and connection it creates is released before it returns, in reverse order
// of creation. When the run succeeded but a release failed, both the report
// and the release error are returned.
func Run(lib mmal.Library, cfg config.Config, opts Options) (report *Report, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	d := &driver{lib: lib, cfg: cfg, opts: opts, log: opts.Log}

	defer func() {
		if cerr := d.cleanup.run(d.log); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				d.log.Errorf("%v", cerr)
			}
		}
	}()

	src, out, err := d.createSource()
	if err != nil {
		return nil, err
	}
	dst, in, err := d.createDest()
	if err != nil {
		return nil, err
	}
	conn, err := d.connect(out, in)
	if err != nil {
		return nil, err
	}

	report = &Report{RunID: uuid.New()}

	// Run for the requested time
	d.log.Infof("Sleeping for %d milliseconds", cfg.Msec)
	start := opts.Now()
	opts.Wait(cfg.Duration(), dst)
	if err := conn.Disable(); err != nil {
		return nil, errors.Wrapf(err, "disable connection %s", conn.Name())
	}
	report.Elapsed = opts.Now().Sub(start)

	// Only vc.ril.source and vc.ril.video_render can report statistics.
	// The renderer never fills in total_bytes.
	if cfg.Source == config.SourceSource {
		s, err := readStats("source", out, report.Elapsed)
		if err != nil {
			return nil, errors.Wrapf(err, "read statistics of %s", src.Name())
		}
		report.Stats = append(report.Stats, s)
	}
	if cfg.Dest == config.DestRender {
		s, err := readStats("dest", in, report.Elapsed)
		if err != nil {
			return nil, errors.Wrapf(err, "read statistics of %s", dst.Name())
		}
		report.Stats = append(report.Stats, s)
	}
	return report, nil
}

func (d *driver) createSource() (mmal.Component, mmal.Port, error) {
	name := d.cfg.Source.Component()
	c, err := d.createComponent(name)
	if err != nil {
		return nil, nil, err
	}

	out, err := c.Output(d.cfg.OutputPort)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "get output port %d of %s", d.cfg.OutputPort, name)
	}

	switch d.cfg.Source {
	case config.SourceSource:
		if err := out.SetParameter(mmal.SourcePattern{Pattern: d.cfg.Pattern.MMAL()}); err != nil {
			return nil, nil, errors.Wrapf(err, "set pattern %s", d.cfg.Pattern)
		}
	case config.SourceCamera:
		if d.cfg.CameraNum >= 0 {
			d.log.Infof("Setting camera_num to %d", d.cfg.CameraNum)
			if err := c.Control().SetParameter(mmal.CameraNum{Index: int32(d.cfg.CameraNum)}); err != nil {
				return nil, nil, errors.Wrapf(err, "set camera_num %d", d.cfg.CameraNum)
			}
		}
	}

	if err := out.Commit(d.cfg.Format()); err != nil {
		return nil, nil, errors.Wrapf(err, "commit format on %s", out.Name())
	}
	if err := c.Enable(); err != nil {
		return nil, nil, errors.Wrapf(err, "enable component %s", name)
	}
	return c, out, nil
}

func (d *driver) createDest() (mmal.Component, mmal.Port, error) {
	name := d.cfg.Dest.Component()
	c, err := d.createComponent(name)
	if err != nil {
		return nil, nil, err
	}

	in, err := c.Input(0)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "get input port 0 of %s", name)
	}
	if err := in.Commit(d.cfg.Format()); err != nil {
		return nil, nil, errors.Wrapf(err, "commit format on %s", in.Name())
	}
	if err := c.Enable(); err != nil {
		return nil, nil, errors.Wrapf(err, "enable component %s", name)
	}
	return c, in, nil
}

// createComponent creates a component, schedules its release and installs
// the control port callback.
func (d *driver) createComponent(name string) (mmal.Component, error) {
	c, err := d.lib.CreateComponent(name)
	if err != nil {
		return nil, errors.Wrapf(err, "create component %s", name)
	}
	d.cleanup.push("destroy component "+name, c.Destroy)

	if err := c.Control().Enable(d.onControl); err != nil {
		return nil, errors.Wrapf(err, "enable control port of %s", name)
	}
	return c, nil
}

func (d *driver) connect(out, in mmal.Port) (mmal.Connection, error) {
	conn, err := d.lib.Connect(out, in, mmal.FlagTunnelling)
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s to %s", out.Name(), in.Name())
	}
	d.cleanup.push("destroy connection "+conn.Name(), conn.Destroy)
	conn.SetCallback(d.onConnection)

	if err := conn.Enable(); err != nil {
		return nil, errors.Wrapf(err, "enable connection %s", conn.Name())
	}
	if d.cfg.StartsCapture() {
		d.log.Info("Setting capture to true")
		if err := out.SetParameter(mmal.Capture{Enabled: true}); err != nil {
			return nil, errors.Wrapf(err, "start capture on %s", out.Name())
		}
	}
	return conn, nil
}

// Callbacks run on library threads. They must not block.

func (d *driver) onControl(p mmal.Port, buf mmal.Buffer) {
	d.log.Debugf("Called by %s", p.Name())
	buf.Release()
}

func (d *driver) onConnection(c mmal.Connection) {
	d.log.Debugf("Called by %s", c.Name())
}

func readStats(label string, p mmal.Port, elapsed time.Duration) (Stats, error) {
	st, err := p.Statistics()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Label: label, Port: p.Name(), Statistics: st, Elapsed: elapsed}, nil
}

// teardown is a stack of release steps run in reverse order of registration.
type teardown struct {
	steps []releaseStep
}

type releaseStep struct {
	name string
	fn   func() error
}

func (t *teardown) push(name string, fn func() error) {
	t.steps = append(t.steps, releaseStep{name: name, fn: fn})
}

// run executes every step, newest first. It returns the first failure and
// logs the rest.
func (t *teardown) run(log logging.LeveledLogger) error {
	var first error
	for i := len(t.steps) - 1; i >= 0; i-- {
		s := t.steps[i]
		if err := s.fn(); err != nil {
			err = errors.Wrap(err, s.name)
			if first == nil {
				first = err
			} else {
				log.Errorf("%v", err)
			}
		}
	}
	t.steps = nil
	return first
}
