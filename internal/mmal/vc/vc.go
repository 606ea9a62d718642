//go:build mmal && cgo

package vc

/*
#cgo CFLAGS: -I/opt/vc/include -I/opt/vc/include/interface/vcos/pthreads -I/opt/vc/include/interface/vmcs_host/linux
#cgo LDFLAGS: -L/opt/vc/lib -lmmal -lmmal_core -lmmal_util -lmmal_vc_client -lvcos -lbcm_host
#include <stdlib.h>
#include "bench.h"
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/linuxmatters/mmalbench/internal/logging"
	"github.com/linuxmatters/mmalbench/internal/mmal"
)

var hostInit sync.Once

func init() {
	mmal.Register("vc", func() (mmal.Library, error) {
		return Open(), nil
	})
}

// Library is the VideoCore MMAL library. There is one per process; the
// firmware keeps its own state.
type Library struct {
	log logging.LeveledLogger
}

// Open initialises the VideoCore host interface on first use.
func Open() *Library {
	hostInit.Do(func() { C.bcm_host_init() })
	return &Library{log: logging.NewLogger("vc")}
}

func (l *Library) CreateComponent(name string) (mmal.Component, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var cp *C.MMAL_COMPONENT_T
	if err := check("mmal_component_create("+name+")", C.mmal_component_create(cname, &cp)); err != nil {
		return nil, err
	}

	c := &component{lib: l, c: cp, name: name}
	c.control = newPort(l, cp.control, mmal.PortControl, 0)
	for i, p := range portSlice(cp.input, cp.input_num) {
		c.inputs = append(c.inputs, newPort(l, p, mmal.PortInput, i))
	}
	for i, p := range portSlice(cp.output, cp.output_num) {
		c.outputs = append(c.outputs, newPort(l, p, mmal.PortOutput, i))
	}
	l.log.Debugf("created component %s", name)
	return c, nil
}

func (l *Library) Connect(out, in mmal.Port, flags mmal.ConnectionFlags) (mmal.Connection, error) {
	const op = "mmal_connection_create"
	src, ok1 := out.(*port)
	dst, ok2 := in.(*port)
	if !ok1 || !ok2 {
		return nil, mmal.Check(op, mmal.EINVAL)
	}

	var cflags C.uint32_t
	if flags&mmal.FlagTunnelling != 0 {
		cflags |= C.MMAL_CONNECTION_FLAG_TUNNELLING
	}
	if flags&mmal.FlagAllocationOnInput != 0 {
		cflags |= C.MMAL_CONNECTION_FLAG_ALLOCATION_ON_INPUT
	}
	if flags&mmal.FlagAllocationOnOutput != 0 {
		cflags |= C.MMAL_CONNECTION_FLAG_ALLOCATION_ON_OUTPUT
	}

	var cc *C.MMAL_CONNECTION_T
	if err := check(op, C.mmal_connection_create(&cc, src.p, dst.p, cflags)); err != nil {
		return nil, err
	}
	c := &connection{lib: l, c: cc, name: C.GoString(cc.name)}
	l.log.Debugf("created connection %s", c.name)
	return c, nil
}

// Close is a no-op: the firmware releases everything when the process exits.
func (l *Library) Close() error { return nil }

func check(op string, s C.MMAL_STATUS_T) error {
	return mmal.Check(op, mmal.Status(s))
}

func portSlice(ports **C.MMAL_PORT_T, n C.uint32_t) []*C.MMAL_PORT_T {
	if n == 0 || ports == nil {
		return nil
	}
	return unsafe.Slice(ports, int(n))
}

type component struct {
	lib     *Library
	c       *C.MMAL_COMPONENT_T
	name    string
	control *port
	inputs  []*port
	outputs []*port
}

func (c *component) Name() string       { return c.name }
func (c *component) Control() mmal.Port { return c.control }

func (c *component) Input(index int) (mmal.Port, error) {
	if index < 0 || index >= len(c.inputs) {
		return nil, mmal.Check(fmt.Sprintf("%s input %d", c.name, index), mmal.ENXIO)
	}
	return c.inputs[index], nil
}

func (c *component) Output(index int) (mmal.Port, error) {
	if index < 0 || index >= len(c.outputs) {
		return nil, mmal.Check(fmt.Sprintf("%s output %d", c.name, index), mmal.ENXIO)
	}
	return c.outputs[index], nil
}

func (c *component) Enable() error {
	return check("mmal_component_enable("+c.name+")", C.mmal_component_enable(c.c))
}

func (c *component) Disable() error {
	return check("mmal_component_disable("+c.name+")", C.mmal_component_disable(c.c))
}

func (c *component) Destroy() error {
	if err := check("mmal_component_destroy("+c.name+")", C.mmal_component_destroy(c.c)); err != nil {
		return err
	}
	c.control.release()
	c.lib.log.Debugf("destroyed component %s", c.name)
	return nil
}

type port struct {
	lib   *Library
	p     *C.MMAL_PORT_T
	typ   mmal.PortType
	index int
	name  string

	mu     sync.Mutex
	cb     mmal.ControlCallback
	handle cgo.Handle
}

func newPort(l *Library, p *C.MMAL_PORT_T, typ mmal.PortType, index int) *port {
	return &port{lib: l, p: p, typ: typ, index: index, name: C.GoString(p.name)}
}

func (p *port) Name() string        { return p.name }
func (p *port) Type() mmal.PortType { return p.typ }
func (p *port) Index() int          { return p.index }

func (p *port) callback() mmal.ControlCallback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cb
}

func (p *port) Enable(cb mmal.ControlCallback) error {
	p.mu.Lock()
	p.cb = cb
	if p.handle == 0 {
		p.handle = cgo.NewHandle(p)
	}
	h := p.handle
	p.mu.Unlock()

	if err := check("mmal_port_enable("+p.name+")", C.bench_port_enable(p.p, C.uintptr_t(h))); err != nil {
		p.release()
		return err
	}
	return nil
}

func (p *port) Disable() error {
	if err := check("mmal_port_disable("+p.name+")", C.mmal_port_disable(p.p)); err != nil {
		return err
	}
	p.release()
	return nil
}

func (p *port) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb = nil
	if p.handle != 0 {
		p.handle.Delete()
		p.handle = 0
	}
}

func (p *port) Format() mmal.Format {
	var f C.bench_format_t
	C.bench_port_format_get(p.p, &f)
	return mmal.Format{
		Encoding: mmal.Encoding(f.encoding),
		Width:    int(f.width),
		Height:   int(f.height),
		Crop: mmal.Rect{
			X:      int(f.crop_x),
			Y:      int(f.crop_y),
			Width:  int(f.crop_width),
			Height: int(f.crop_height),
		},
	}
}

func (p *port) Commit(f mmal.Format) error {
	cf := C.bench_format_t{
		encoding:    C.uint32_t(f.Encoding),
		width:       C.int32_t(f.Width),
		height:      C.int32_t(f.Height),
		crop_x:      C.int32_t(f.Crop.X),
		crop_y:      C.int32_t(f.Crop.Y),
		crop_width:  C.int32_t(f.Crop.Width),
		crop_height: C.int32_t(f.Crop.Height),
	}
	return check("mmal_port_format_commit("+p.name+")", C.bench_port_format_commit(p.p, &cf))
}

func (p *port) SetParameter(param mmal.Parameter) error {
	op := fmt.Sprintf("mmal_port_parameter_set(%s, %s)", p.name, param.ID())
	switch v := param.(type) {
	case mmal.SourcePattern:
		return check(op, C.bench_port_set_pattern(p.p, C.uint32_t(v.Pattern)))
	case mmal.CameraNum:
		return check(op, C.mmal_port_parameter_set_int32(p.p, C.MMAL_PARAMETER_CAMERA_NUM, C.int32_t(v.Index)))
	case mmal.Capture:
		var b C.MMAL_BOOL_T
		if v.Enabled {
			b = 1
		}
		return check(op, C.mmal_port_parameter_set_boolean(p.p, C.MMAL_PARAMETER_CAPTURE, b))
	}
	return mmal.Check(op, mmal.ENOSYS)
}

func (p *port) Statistics() (mmal.Statistics, error) {
	var s C.MMAL_PARAMETER_STATISTICS_T
	if err := check("mmal_port_parameter_get("+p.name+", STATISTICS)", C.bench_port_get_statistics(p.p, &s)); err != nil {
		return mmal.Statistics{}, err
	}
	return mmal.Statistics{
		BufferCount:     uint32(s.buffer_count),
		FrameCount:      uint32(s.frame_count),
		FramesSkipped:   uint32(s.frames_skipped),
		FramesDiscarded: uint32(s.frames_discarded),
		TotalBytes:      int64(s.total_bytes),
	}, nil
}

// buffer is a control event lent to a callback. Release hands it back to
// the port's pool exactly once.
type buffer struct {
	h        *C.MMAL_BUFFER_HEADER_T
	released atomic.Bool
}

func (b *buffer) Release() {
	if b.released.CompareAndSwap(false, true) {
		C.mmal_buffer_header_release(b.h)
	}
}

type connection struct {
	lib  *Library
	c    *C.MMAL_CONNECTION_T
	name string

	mu     sync.Mutex
	cb     mmal.ConnectionCallback
	handle cgo.Handle
}

func (c *connection) Name() string { return c.name }

func (c *connection) callback() mmal.ConnectionCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cb
}

func (c *connection) SetCallback(cb mmal.ConnectionCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cb = cb
	if c.handle == 0 {
		c.handle = cgo.NewHandle(c)
		C.bench_connection_set_callback(c.c, C.uintptr_t(c.handle))
	}
}

func (c *connection) Enable() error {
	return check("mmal_connection_enable("+c.name+")", C.mmal_connection_enable(c.c))
}

func (c *connection) Disable() error {
	return check("mmal_connection_disable("+c.name+")", C.mmal_connection_disable(c.c))
}

func (c *connection) Destroy() error {
	if err := check("mmal_connection_destroy("+c.name+")", C.mmal_connection_destroy(c.c)); err != nil {
		return err
	}
	c.mu.Lock()
	if c.handle != 0 {
		c.handle.Delete()
		c.handle = 0
	}
	c.mu.Unlock()
	c.lib.log.Debugf("destroyed connection %s", c.name)
	return nil
}

var (
	_ mmal.Library    = (*Library)(nil)
	_ mmal.Component  = (*component)(nil)
	_ mmal.Port       = (*port)(nil)
	_ mmal.Connection = (*connection)(nil)
)
