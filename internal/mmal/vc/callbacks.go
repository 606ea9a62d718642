//go:build mmal && cgo

package vc

/*
#include "bench.h"
*/
import "C"

import (
	"runtime/cgo"
)

// goControlCallback runs on an MMAL worker thread for every control port
// event. The handle was stored in the port's userdata by bench_port_enable.
//
//export goControlCallback
func goControlCallback(h C.uintptr_t, buf *C.MMAL_BUFFER_HEADER_T) {
	b := &buffer{h: buf}
	p, ok := cgo.Handle(h).Value().(*port)
	if !ok {
		b.Release()
		return
	}
	cb := p.callback()
	if cb == nil {
		b.Release()
		return
	}
	cb(p, b)
}

//export goConnectionCallback
func goConnectionCallback(h C.uintptr_t) {
	c, ok := cgo.Handle(h).Value().(*connection)
	if !ok {
		return
	}
	if cb := c.callback(); cb != nil {
		cb(c)
	}
}
