// Package logger writes quotechain's diagnostic output to stderr.
//
// Warnings always print. Info and Debug lines only print once --verbose
// raised the level, so a normal run shows command output alone.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level orders messages by importance.
type Level int

// Levels from most to least detailed.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

var prefixes = [...]string{
	LevelDebug: "[DEBUG] ",
	LevelInfo:  "[INFO] ",
	LevelWarn:  "[WARN] ",
}

var (
	mu     sync.Mutex
	level  Level     = LevelWarn
	output io.Writer = os.Stderr
)

// SetLevel sets the least important level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetVerbose prints everything when v is true and only warnings
// otherwise.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelWarn)
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return level == LevelDebug
}

// SetOutput redirects log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug logs detail about individual rebuilds and merges.
func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }

// Info logs progress of long running work such as sweeps.
func Info(format string, args ...any) { logf(LevelInfo, format, args...) }

// Warn logs failures that do not stop the current command.
func Warn(format string, args ...any) { logf(LevelWarn, format, args...) }

// Timed logs a debug line with the elapsed time when the returned func
// is called. Use it as defer logger.Timed("Swept group %s", id)().
func Timed(format string, args ...any) func() {
	start := time.Now()
	return func() {
		logf(LevelDebug, format+" in %s", append(args, time.Since(start).Round(time.Microsecond))...)
	}
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	fmt.Fprintf(output, prefixes[l]+format+"\n", args...)
}
