// Package debug provides conditional debug logging for mb.
//
// Debug logging is enabled by setting the MB_DEBUG environment variable:
//
//	MB_DEBUG=1 mb --model ./models
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	import "github.com/vanderheijden86/modelbrowser/pkg/debug"
//
//	func expand() {
//	    defer debug.LogEnterExit("expand")()
//	    debug.Log("materialized %d rows", n)
//	}
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

var (
	// enabled is true when MB_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [MB_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("MB_DEBUG") != "" {
		enabled = true
		logger = newLogger(os.Stderr)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[MB_DEBUG] ", log.Ltime|log.Lmicroseconds)
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = newLogger(os.Stderr)
	}
}

// SetOutput redirects debug output, e.g. to a file while the TUI owns the
// terminal.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
