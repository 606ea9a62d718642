package mmal

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Opener opens a library backend.
type Opener func() (Library, error)

var registry = struct {
	sync.Mutex
	backends map[string]Opener
}{backends: make(map[string]Opener)}

// Register makes a backend available under name. Backends call it from init.
func Register(name string, open Opener) {
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.backends[name]; dup {
		panic("mmal: backend registered twice: " + name)
	}
	registry.backends[name] = open
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	registry.Lock()
	defer registry.Unlock()
	names := make([]string, 0, len(registry.backends))
	for name := range registry.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBackend prefers the hardware backend when it was compiled in.
func DefaultBackend() string {
	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.backends["vc"]; ok {
		return "vc"
	}
	return "sim"
}

// Open opens the named backend.
func Open(name string) (Library, error) {
	registry.Lock()
	open, ok := registry.backends[name]
	registry.Unlock()
	if !ok {
		return nil, errors.Errorf("unknown backend %q (available: %v)", name, Backends())
	}
	lib, err := open()
	if err != nil {
		return nil, errors.Wrapf(err, "open backend %s", name)
	}
	return lib, nil
}
