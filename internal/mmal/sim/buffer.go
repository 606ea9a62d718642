package sim

import (
	"sync/atomic"
)

// opaqueSize is the payload of an opaque buffer: a handle to GPU memory,
// not the pixels.
const opaqueSize = 128

type buffer struct {
	data   []byte
	length int
	pool   *pool
}

func (b *buffer) Release() {
	b.length = 0
	b.pool.free <- b
}

// pool is the fixed set of buffers a connection allocates on enable.
type pool struct {
	free chan *buffer
}

func newPool(n, size int) *pool {
	p := &pool{free: make(chan *buffer, n)}
	for i := 0; i < n; i++ {
		p.free <- &buffer{data: make([]byte, size), pool: p}
	}
	return p
}

// get waits for a free buffer. It returns nil once stop is closed.
func (p *pool) get(stop <-chan struct{}) *buffer {
	select {
	case b := <-p.free:
		return b
	case <-stop:
		return nil
	}
}

// event is a control port event lent to a callback.
type event struct {
	lib      *Library
	released atomic.Bool
}

func newEvent(l *Library) *event {
	l.unreleased.Add(1)
	return &event{lib: l}
}

func (e *event) Release() {
	if e.released.CompareAndSwap(false, true) {
		e.lib.unreleased.Add(-1)
	}
}
