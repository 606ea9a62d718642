package sim

import (
	"fmt"
	"sync"

	"github.com/linuxmatters/mmalbench/internal/mmal"
)

type port struct {
	comp  *component
	typ   mmal.PortType
	index int
	name  string

	mu        sync.Mutex
	format    mmal.Format
	committed bool
	enabled   bool
	cb        mmal.ControlCallback
	conn      *connection
	pattern   mmal.Pattern
	capture   bool
	stats     mmal.Statistics
}

func newPort(c *component, typ mmal.PortType, index int) *port {
	name := fmt.Sprintf("%s:%s:%d", c.name, typ, index)
	if typ == mmal.PortControl {
		name = fmt.Sprintf("%s:ctr:%d", c.name, index)
	}
	return &port{comp: c, typ: typ, index: index, name: name}
}

func (p *port) Name() string        { return p.name }
func (p *port) Type() mmal.PortType { return p.typ }
func (p *port) Index() int          { return p.index }

// Enable installs the event callback of a control port. Data ports are only
// driven through tunnelled connections.
func (p *port) Enable(cb mmal.ControlCallback) error {
	const op = "mmal_port_enable"
	if p.typ != mmal.PortControl {
		return mmal.Check(op+"("+p.name+")", mmal.ENOSYS)
	}
	if cb == nil {
		return mmal.Check(op+"("+p.name+")", mmal.EINVAL)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return mmal.Check(op+"("+p.name+")", mmal.EINVAL)
	}
	p.enabled = true
	p.cb = cb
	return nil
}

func (p *port) Disable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return mmal.Check("mmal_port_disable("+p.name+")", mmal.EINVAL)
	}
	p.enabled = false
	p.cb = nil
	return nil
}

func (p *port) Format() mmal.Format {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.format
}

// Commit accepts I420, RGBA and opaque frames whose buffer size is aligned
// and whose crop lies inside the buffer.
func (p *port) Commit(f mmal.Format) error {
	op := "mmal_port_format_commit(" + p.name + ")"
	if p.typ == mmal.PortControl {
		return mmal.Check(op, mmal.EINVAL)
	}
	switch f.Encoding {
	case mmal.EncodingI420, mmal.EncodingRGBA, mmal.EncodingOpaque:
	default:
		return mmal.Check(op, mmal.EINVAL)
	}
	if f.Width <= 0 || f.Height <= 0 || f.Width%mmal.WidthAlign != 0 || f.Height%mmal.HeightAlign != 0 {
		return mmal.Check(op, mmal.EINVAL)
	}
	c := f.Crop
	if c.X < 0 || c.Y < 0 || c.Width <= 0 || c.Height <= 0 || c.X+c.Width > f.Width || c.Y+c.Height > f.Height {
		return mmal.Check(op, mmal.EINVAL)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return mmal.Check(op, mmal.EISCONN)
	}
	p.format = f
	p.committed = true
	return nil
}

func (p *port) SetParameter(param mmal.Parameter) error {
	op := fmt.Sprintf("mmal_port_parameter_set(%s, %s)", p.name, param.ID())
	switch v := param.(type) {
	case mmal.SourcePattern:
		if p.comp.kind != kindSource || p.typ != mmal.PortOutput {
			return mmal.Check(op, mmal.ENOSYS)
		}
		if v.Pattern < mmal.PatternWhite || v.Pattern > mmal.PatternSwirly {
			return mmal.Check(op, mmal.EINVAL)
		}
		p.mu.Lock()
		p.pattern = v.Pattern
		p.mu.Unlock()
		return nil

	case mmal.CameraNum:
		if p.comp.kind != kindCamera || p.typ != mmal.PortControl {
			return mmal.Check(op, mmal.ENOSYS)
		}
		if err := p.comp.setCameraNum(v.Index); err != nil {
			return mmal.Check(op, mmal.EINVAL)
		}
		return nil

	case mmal.Capture:
		if p.comp.kind != kindCamera || p.typ != mmal.PortOutput || p.index == 0 {
			return mmal.Check(op, mmal.ENOSYS)
		}
		p.mu.Lock()
		p.capture = v.Enabled
		p.mu.Unlock()
		return nil
	}
	return mmal.Check(op, mmal.ENOSYS)
}

func (p *port) Statistics() (mmal.Statistics, error) {
	if !p.comp.supportsStatistics(p) {
		return mmal.Statistics{}, mmal.Check("mmal_port_parameter_get("+p.name+", STATISTICS)", mmal.ENOSYS)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats, nil
}

func (p *port) connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

func (p *port) capturing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capture
}

func (p *port) count(update func(s *mmal.Statistics)) {
	p.mu.Lock()
	update(&p.stats)
	p.mu.Unlock()
}

// notify delivers one control event if the port has a callback installed.
// The callback runs on the caller's goroutine, like firmware events arrive
// on an MMAL worker thread.
func (p *port) notify() {
	p.mu.Lock()
	cb := p.cb
	p.mu.Unlock()
	if cb == nil {
		return
	}

	ev := newEvent(p.comp.lib)
	cb(p, ev)
	if !ev.released.Load() {
		p.comp.lib.log.Warnf("%s: control callback kept its event buffer", p.name)
	}
}

var _ mmal.Port = (*port)(nil)
