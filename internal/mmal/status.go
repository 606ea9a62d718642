package mmal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status mirrors the status codes returned by every MMAL call.
type Status uint32

const (
	Success Status = iota
	ENOMEM
	ENOSPC
	EINVAL
	ENOSYS
	ENOENT
	ENXIO
	EIO
	ESPIPE
	ECORRUPT
	ENOTREADY
	ECONFIG
	EISCONN
	ENOTCONN
	EAGAIN
	EFAULT
)

var statusNames = [...]string{
	Success:   "SUCCESS",
	ENOMEM:    "ENOMEM",
	ENOSPC:    "ENOSPC",
	EINVAL:    "EINVAL",
	ENOSYS:    "ENOSYS",
	ENOENT:    "ENOENT",
	ENXIO:     "ENXIO",
	EIO:       "EIO",
	ESPIPE:    "ESPIPE",
	ECORRUPT:  "ECORRUPT",
	ENOTREADY: "ENOTREADY",
	ECONFIG:   "ECONFIG",
	EISCONN:   "EISCONN",
	ENOTCONN:  "ENOTCONN",
	EAGAIN:    "EAGAIN",
	EFAULT:    "EFAULT",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// StatusError is a non-success status returned by a library call.
type StatusError struct {
	Op     string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s (0x%08x)", e.Op, e.Status, uint32(e.Status))
}

// Check converts a status into an error, nil on success.
func Check(op string, s Status) error {
	if s == Success {
		return nil
	}
	return &StatusError{Op: op, Status: s}
}

// IsStatus reports whether err carries the given library status.
func IsStatus(err error, s Status) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == s
}
