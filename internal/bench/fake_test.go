package bench

import (
	"fmt"
	"sync"

	"github.com/linuxmatters/mmalbench/internal/mmal"
)

// recorder is a Library that logs every call as "verb target" and fails the
// calls listed in fail.
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	stats map[string]mmal.Statistics
}

func newRecorder() *recorder {
	return &recorder{fail: map[string]error{}, stats: map[string]mmal.Statistics{}}
}

func (r *recorder) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.fail[call]
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) CreateComponent(name string) (mmal.Component, error) {
	if err := r.record("create %s", name); err != nil {
		return nil, err
	}
	c := &fakeComponent{r: r, name: name}
	c.control = &fakePort{r: r, name: name + ":ctr:0", typ: mmal.PortControl}
	for i := 0; i < 3; i++ {
		c.outputs = append(c.outputs, &fakePort{r: r, name: fmt.Sprintf("%s:out:%d", name, i), typ: mmal.PortOutput, index: i})
	}
	c.inputs = []*fakePort{{r: r, name: name + ":in:0", typ: mmal.PortInput}}
	return c, nil
}

func (r *recorder) Connect(out, in mmal.Port, flags mmal.ConnectionFlags) (mmal.Connection, error) {
	name := out.Name() + "/" + in.Name()
	if flags != mmal.FlagTunnelling {
		return nil, mmal.Check("connect", mmal.ENOSYS)
	}
	if err := r.record("connect %s", name); err != nil {
		return nil, err
	}
	return &fakeConnection{r: r, name: name}, nil
}

func (r *recorder) Close() error { return nil }

type fakeComponent struct {
	r       *recorder
	name    string
	control *fakePort
	inputs  []*fakePort
	outputs []*fakePort
}

func (c *fakeComponent) Name() string       { return c.name }
func (c *fakeComponent) Control() mmal.Port { return c.control }

func (c *fakeComponent) Input(i int) (mmal.Port, error) {
	if i < 0 || i >= len(c.inputs) {
		return nil, mmal.Check("input", mmal.ENXIO)
	}
	return c.inputs[i], nil
}

func (c *fakeComponent) Output(i int) (mmal.Port, error) {
	if i < 0 || i >= len(c.outputs) {
		return nil, mmal.Check("output", mmal.ENXIO)
	}
	return c.outputs[i], nil
}

func (c *fakeComponent) Enable() error  { return c.r.record("enable %s", c.name) }
func (c *fakeComponent) Disable() error { return c.r.record("disable %s", c.name) }
func (c *fakeComponent) Destroy() error { return c.r.record("destroy %s", c.name) }

type fakePort struct {
	r     *recorder
	name  string
	typ   mmal.PortType
	index int
	cb    mmal.ControlCallback
	fmt   mmal.Format
}

func (p *fakePort) Name() string        { return p.name }
func (p *fakePort) Type() mmal.PortType { return p.typ }
func (p *fakePort) Index() int          { return p.index }
func (p *fakePort) Format() mmal.Format { return p.fmt }

func (p *fakePort) Enable(cb mmal.ControlCallback) error {
	p.cb = cb
	return p.r.record("enable %s", p.name)
}

func (p *fakePort) Disable() error { return p.r.record("disable %s", p.name) }

func (p *fakePort) Commit(f mmal.Format) error {
	p.fmt = f
	return p.r.record("commit %s %s %dx%d crop %dx%d", p.name, f.Encoding, f.Width, f.Height, f.Crop.Width, f.Crop.Height)
}

func (p *fakePort) SetParameter(param mmal.Parameter) error {
	switch v := param.(type) {
	case mmal.SourcePattern:
		return p.r.record("set %s pattern=%s", p.name, v.Pattern)
	case mmal.CameraNum:
		return p.r.record("set %s camera_num=%d", p.name, v.Index)
	case mmal.Capture:
		return p.r.record("set %s capture=%t", p.name, v.Enabled)
	}
	return mmal.Check("set", mmal.ENOSYS)
}

func (p *fakePort) Statistics() (mmal.Statistics, error) {
	if err := p.r.record("stats %s", p.name); err != nil {
		return mmal.Statistics{}, err
	}
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	return p.r.stats[p.name], nil
}

type fakeConnection struct {
	r    *recorder
	name string
	cb   mmal.ConnectionCallback
}

func (c *fakeConnection) Name() string   { return c.name }
func (c *fakeConnection) Enable() error  { return c.r.record("enable %s", c.name) }
func (c *fakeConnection) Disable() error { return c.r.record("disable %s", c.name) }
func (c *fakeConnection) Destroy() error { return c.r.record("destroy %s", c.name) }

func (c *fakeConnection) SetCallback(cb mmal.ConnectionCallback) { c.cb = cb }

type fakeBuffer struct{ released int }

func (b *fakeBuffer) Release() { b.released++ }
