package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--iterations", "3", "-p", "dia", "-e", "rgba", "-w", "64", "-h", "48"}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "diagonal")
	assert.Contains(t, stdout.String(), "rgba")
	assert.Contains(t, stdout.String(), "frame/s:")
}

func TestRun_Opaque(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--iterations", "2", "-e", "op", "-w", "32", "-h", "16", "-q"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRun_BadInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-p", "b"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "ambiguous pattern: b")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-w", "0"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "must be positive")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-h", "-2"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "must be positive")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-?"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "bench-pattern [OPTION]...")
	assert.Contains(t, stdout.String(), "--iterations")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-?"}, brokenWriter{}, &stderr))
	assert.Contains(t, stderr.String(), "broken pipe")
}
