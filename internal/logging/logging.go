// Package logging hands out scoped leveled loggers that share one factory.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/pion/logging"
)

type LeveledLogger = logging.LeveledLogger

var (
	mu            sync.Mutex
	loggerFactory = &logging.DefaultLoggerFactory{
		Writer:          os.Stderr,
		DefaultLogLevel: logging.LogLevelInfo,
		ScopeLevels:     map[string]logging.LogLevel{},
	}
)

// Configure sets the destination and verbosity of loggers created after the
// call. Verbose enables debug output, which includes library callbacks.
func Configure(w io.Writer, verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	level := logging.LogLevelInfo
	if verbose {
		level = logging.LogLevelDebug
	}
	loggerFactory = &logging.DefaultLoggerFactory{
		Writer:          w,
		DefaultLogLevel: level,
		ScopeLevels:     map[string]logging.LogLevel{},
	}
}

func NewLogger(scope string) LeveledLogger {
	mu.Lock()
	defer mu.Unlock()
	return loggerFactory.NewLogger(scope)
}
