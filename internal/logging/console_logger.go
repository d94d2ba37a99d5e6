// Package logging provides concrete implementations of the popstat.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleLogger writes log lines to a single writer, stderr by default,
// so stdout stays reserved for machine-readable output. Safe for
// concurrent use by multiple goroutines.
type ConsoleLogger struct {
	out     io.Writer
	verbose bool
	mu      sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger targeting stderr. If verbose
// is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		out:     os.Stderr,
		verbose: verbose,
	}
}

// emit serializes writes so lines from concurrent callers never
// interleave. A format string without arguments is written verbatim,
// so callers can log arbitrary text without %-escaping it.
func (l *ConsoleLogger) emit(prefix, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) == 0 {
		fmt.Fprint(l.out, prefix+format+"\n")
		return
	}
	fmt.Fprintf(l.out, prefix+format+"\n", args...)
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.emit("[VERBOSE] ", format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.emit("", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.emit("[ERROR] ", format, args)
}
