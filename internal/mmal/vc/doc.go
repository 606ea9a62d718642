// Package vc binds the VideoCore MMAL library through cgo. It is only built
// with the "mmal" build tag and needs the userland headers and libraries
// under /opt/vc, as found on Raspberry Pi OS.
package vc
