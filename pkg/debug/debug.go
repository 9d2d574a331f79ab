// Package debug provides conditional debug logging for lv.
//
// Debug logging is enabled by setting the LITMAP_DEBUG environment variable:
//
//	LITMAP_DEBUG=1 lv -data clusters.json
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero overhead.
// Stderr is safe to write even while the TUI owns stdout.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when LITMAP_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [LITMAP_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("LITMAP_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[LITMAP_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
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
