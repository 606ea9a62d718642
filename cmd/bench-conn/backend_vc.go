//go:build mmal && cgo

package main

import (
	_ "github.com/linuxmatters/mmalbench/internal/mmal/vc"
)
