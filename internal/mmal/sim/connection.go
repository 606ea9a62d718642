package sim

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/linuxmatters/mmalbench/internal/mmal"
	"github.com/linuxmatters/mmalbench/internal/pattern"
)

type connection struct {
	lib  *Library
	name string
	out  *port
	in   *port

	mu        sync.Mutex
	cb        mmal.ConnectionCallback
	enabled   bool
	destroyed bool
	stop      chan struct{}
	done      chan struct{}
}

func (c *connection) Name() string { return c.name }

func (c *connection) SetCallback(cb mmal.ConnectionCallback) {
	c.mu.Lock()
	c.cb = cb
	c.mu.Unlock()
}

// Enable allocates the buffer pool and starts moving frames. Both
// components must already be enabled.
func (c *connection) Enable() error {
	const op = "mmal_connection_enable"

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return mmal.Check(op, mmal.EINVAL)
	}
	if c.enabled {
		return nil
	}
	if !c.out.comp.isEnabled() || !c.in.comp.isEnabled() {
		return mmal.Check(op, mmal.ENOTREADY)
	}

	f := c.out.Format()
	src := c.newFrameSource(f)
	p := newPool(c.lib.opts.PoolSize, frameSize(f))
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.enabled = true
	go c.run(src, p, f, c.stop, c.done)
	c.lib.log.Debugf("enabled connection %s", c.name)
	return nil
}

// Disable stops the transfer goroutine and waits for it to return the
// buffer it holds.
func (c *connection) Disable() error {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return nil
	}
	close(c.stop)
	done, cb := c.done, c.cb
	c.enabled = false
	c.mu.Unlock()

	<-done
	if cb != nil {
		cb(c)
	}
	c.lib.log.Debugf("disabled connection %s", c.name)
	return nil
}

// Destroy disables the connection if needed and detaches both ports.
func (c *connection) Destroy() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return mmal.Check("mmal_connection_destroy", mmal.EINVAL)
	}
	c.mu.Unlock()

	if err := c.Disable(); err != nil {
		return err
	}

	for _, p := range []*port{c.out, c.in} {
		p.mu.Lock()
		p.conn = nil
		p.mu.Unlock()
	}

	c.mu.Lock()
	c.destroyed = true
	c.mu.Unlock()
	c.lib.log.Debugf("destroyed connection %s", c.name)
	return nil
}

func (c *connection) run(src frameSource, p *pool, f mmal.Format, stop, done chan struct{}) {
	defer close(done)

	c.out.comp.control.notify()
	c.in.comp.control.notify()

	var tick <-chan time.Time
	if iv := src.interval(); iv > 0 {
		t := time.NewTicker(iv)
		defer t.Stop()
		tick = t.C
	}

	var nextRefresh time.Time
	for {
		if tick != nil {
			select {
			case <-stop:
				return
			case <-tick:
			}
		} else {
			select {
			case <-stop:
				return
			default:
			}
		}
		if !src.ready() {
			continue
		}

		buf := p.get(stop)
		if buf == nil {
			return
		}
		buf.length = src.fill(buf.data)
		c.out.count(func(s *mmal.Statistics) {
			s.BufferCount++
			s.FrameCount++
			s.TotalBytes += int64(buf.length)
		})
		c.deliver(buf, f, &nextRefresh, stop)
		buf.Release()
	}
}

// deliver hands a filled buffer to the sink. The renderer holds it until the
// next display refresh, which throttles the whole tunnel to the refresh rate.
// Its byte counter is never updated, as on the firmware.
func (c *connection) deliver(buf *buffer, f mmal.Format, nextRefresh *time.Time, stop <-chan struct{}) {
	sink := c.in
	if sink.comp.kind != kindRender {
		sink.count(func(s *mmal.Statistics) {
			s.BufferCount++
			s.FrameCount++
			s.TotalBytes += int64(buf.length)
		})
		return
	}

	if wait := time.Until(*nextRefresh); wait > 0 {
		t := time.NewTimer(wait)
		select {
		case <-stop:
			t.Stop()
			sink.count(func(s *mmal.Statistics) {
				s.BufferCount++
				s.FramesSkipped++
			})
			return
		case <-t.C:
		}
	}

	if f.Encoding != mmal.EncodingOpaque {
		sink.comp.keepFrame(buf.data[:buf.length], f)
	}
	sink.count(func(s *mmal.Statistics) {
		s.BufferCount++
		s.FrameCount++
	})
	now := time.Now()
	if nextRefresh.Before(now) {
		*nextRefresh = now
	}
	*nextRefresh = nextRefresh.Add(c.lib.opts.RefreshInterval)
}

func frameSize(f mmal.Format) int {
	switch f.Encoding {
	case mmal.EncodingI420:
		return pattern.I420Size(f.Width, f.Height)
	case mmal.EncodingRGBA:
		return pattern.RGBASize(f.Width, f.Height)
	}
	return opaqueSize
}

// frameSource produces the frames of one output port.
type frameSource interface {
	ready() bool
	interval() time.Duration
	fill(dst []byte) int
}

func (c *connection) newFrameSource(f mmal.Format) frameSource {
	out := c.out
	if out.comp.kind == kindCamera {
		return &cameraSource{
			port:   out,
			period: c.lib.opts.CameraInterval,
			frames: newPatternSource(mmal.PatternColour, f, c.lib.opts.Seed),
		}
	}
	out.mu.Lock()
	pat := out.pattern
	out.mu.Unlock()
	return newPatternSource(pat, f, c.lib.opts.Seed)
}

type patternSource struct {
	gen    *pattern.Generator
	format mmal.Format
	cache  []byte
	seq    uint64
}

func newPatternSource(p mmal.Pattern, f mmal.Format, seed uint64) *patternSource {
	return &patternSource{
		gen:    pattern.NewGenerator(p, f.Crop.Width, f.Crop.Height, seed),
		format: f,
	}
}

func (s *patternSource) ready() bool             { return true }
func (s *patternSource) interval() time.Duration { return 0 }

func (s *patternSource) fill(dst []byte) int {
	s.seq++
	f := s.format
	if f.Encoding == mmal.EncodingOpaque {
		binary.LittleEndian.PutUint64(dst, s.seq)
		return opaqueSize
	}
	if s.cache != nil {
		return copy(dst, s.cache)
	}

	img := s.gen.Next()
	var n int
	switch f.Encoding {
	case mmal.EncodingI420:
		pattern.ToI420(dst, img, f.Width, f.Height)
		n = pattern.I420Size(f.Width, f.Height)
	case mmal.EncodingRGBA:
		pattern.ToRGBA(dst, img, f.Width)
		n = pattern.RGBASize(f.Width, f.Height)
	}
	if s.gen.Static() {
		s.cache = append([]byte(nil), dst[:n]...)
	}
	return n
}

// cameraSource streams at the sensor rate. The video and still ports only
// stream while capture is requested.
type cameraSource struct {
	port   *port
	period time.Duration
	frames *patternSource
}

func (s *cameraSource) ready() bool {
	return s.port.index == 0 || s.port.capturing()
}

func (s *cameraSource) interval() time.Duration { return s.period }

func (s *cameraSource) fill(dst []byte) int { return s.frames.fill(dst) }

var _ mmal.Connection = (*connection)(nil)
