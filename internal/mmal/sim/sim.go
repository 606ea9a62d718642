// Package sim is an in-process stand-in for the VideoCore MMAL library. It
// provides the four components the benchmark uses, streams synthetic frames
// through tunnelled connections and keeps the same port statistics, so the
// tool runs on machines without a VideoCore GPU.
package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/linuxmatters/mmalbench/internal/logging"
	"github.com/linuxmatters/mmalbench/internal/mmal"
)

func init() {
	mmal.Register("sim", func() (mmal.Library, error) {
		return New(DefaultOptions()), nil
	})
}

// Options tune the simulated hardware.
type Options struct {
	Cameras         int           // sensors vc.ril.camera can open
	CameraInterval  time.Duration // sensor frame period
	RefreshInterval time.Duration // display period of vc.ril.video_render
	PoolSize        int           // buffers allocated per connection
	Seed            uint64        // seed for noise patterns
	Log             logging.LeveledLogger
}

// DefaultOptions model a single 30 fps camera and a 60 Hz display.
func DefaultOptions() Options {
	return Options{
		Cameras:         1,
		CameraInterval:  time.Second / 30,
		RefreshInterval: time.Second / 60,
		PoolSize:        3,
		Seed:            1,
	}
}

// Library is the simulated MMAL instance.
type Library struct {
	opts Options
	log  logging.LeveledLogger

	mu   sync.Mutex
	live map[*component]struct{}

	// unreleased counts control events a callback did not hand back.
	unreleased atomic.Int64
}

// New creates a simulated library.
func New(opts Options) *Library {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 1
	}
	log := opts.Log
	if log == nil {
		log = logging.NewLogger("sim")
	}
	return &Library{
		opts: opts,
		log:  log,
		live: make(map[*component]struct{}),
	}
}

// CreateComponent instantiates one of the supported components by name.
func (l *Library) CreateComponent(name string) (mmal.Component, error) {
	var c *component
	switch name {
	case mmal.ComponentSource:
		c = newComponent(l, name, kindSource, 0, 1)
	case mmal.ComponentCamera:
		c = newComponent(l, name, kindCamera, 0, 3)
	case mmal.ComponentNullSink:
		c = newComponent(l, name, kindNullSink, 1, 0)
	case mmal.ComponentVideoRender:
		c = newComponent(l, name, kindRender, 1, 0)
	default:
		return nil, mmal.Check("mmal_component_create("+name+")", mmal.ENOSYS)
	}

	l.mu.Lock()
	l.live[c] = struct{}{}
	l.mu.Unlock()
	l.log.Debugf("created component %s", name)
	return c, nil
}

// Connect creates a tunnelled connection between an output and an input.
func (l *Library) Connect(out, in mmal.Port, flags mmal.ConnectionFlags) (mmal.Connection, error) {
	const op = "mmal_connection_create"

	src, ok1 := out.(*port)
	dst, ok2 := in.(*port)
	if !ok1 || !ok2 || src.comp.lib != l || dst.comp.lib != l {
		return nil, mmal.Check(op, mmal.EINVAL)
	}
	if src.typ != mmal.PortOutput || dst.typ != mmal.PortInput {
		return nil, mmal.Check(op, mmal.EINVAL)
	}
	if flags&mmal.FlagTunnelling == 0 {
		return nil, mmal.Check(op, mmal.ENOSYS)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	dst.mu.Lock()
	defer dst.mu.Unlock()

	if src.conn != nil || dst.conn != nil {
		return nil, mmal.Check(op, mmal.EISCONN)
	}
	if !src.committed || !dst.committed || src.format != dst.format {
		return nil, mmal.Check(op, mmal.EINVAL)
	}

	c := &connection{
		lib:  l,
		name: src.name + "/" + dst.name,
		out:  src,
		in:   dst,
	}
	src.conn = c
	dst.conn = c
	l.log.Debugf("created connection %s", c.name)
	return c, nil
}

// Close reports components that were never destroyed.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for c := range l.live {
		l.log.Warnf("component %s still alive at close", c.name)
	}
	if n := l.unreleased.Load(); n > 0 {
		l.log.Warnf("%d control event buffers were never released", n)
	}
	return nil
}

// Live is the number of components created and not yet destroyed.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// Unreleased is the number of control event buffers still held by callbacks.
func (l *Library) Unreleased() int64 {
	return l.unreleased.Load()
}

func (l *Library) forget(c *component) {
	l.mu.Lock()
	delete(l.live, c)
	l.mu.Unlock()
}

var _ mmal.Library = (*Library)(nil)
