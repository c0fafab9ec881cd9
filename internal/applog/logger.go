// Package applog provides the runner's global logger: level-based,
// stderr-only (stdout is reserved for --format json), initialized once at
// startup.
package applog

import (
	"io"
	"log"
	"os"
)

type logger struct {
	debugEnabled bool
	info         *log.Logger
	debug        *log.Logger
}

var global *logger

// Initialize sets up the global logger. debugMode enables Debug output.
func Initialize(debugMode bool) {
	var output io.Writer = os.Stderr
	global = &logger{
		debugEnabled: debugMode,
		info:         log.New(output, "", log.LstdFlags),
		debug:        log.New(output, "", log.LstdFlags),
	}
}

// Info logs an informational message. Always shown.
func Info(format string, args ...interface{}) {
	if global != nil {
		global.info.Printf(format, args...)
	}
}

// Debug logs a debug message. Shown only when Initialize(true) was called.
func Debug(format string, args ...interface{}) {
	if global != nil && global.debugEnabled {
		global.debug.Printf("DEBUG: "+format, args...)
	}
}

// Error logs an error message. Always shown.
func Error(format string, args ...interface{}) {
	if global != nil {
		global.info.Printf("ERROR: "+format, args...)
	}
}

// IsDebugEnabled reports whether debug logging is active.
func IsDebugEnabled() bool {
	return global != nil && global.debugEnabled
}
