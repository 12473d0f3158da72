// Package log provides leveled, ansi-colored printf logging for the
// traversal kernel: package-level DebugOn/TraceOn switches and
// DEBUG/TRACE/WARN functions that no-op unless the corresponding switch is
// on.
package log

import (
	"fmt"
	"os"

	"github.com/starkandwayne/goutils/ansi"
)

// DebugOn gates DEBUG output. Set directly, or via SetLevel.
var DebugOn bool

// TraceOn gates TRACE output. SetLevel(LevelTrace) turns it on together
// with DebugOn, since a trace build wants debug output too; setting TraceOn
// directly leaves DebugOn as it is.
var TraceOn bool

// Level names a logging threshold, read from internal/config's
// Logging.Level field.
type Level string

const (
	LevelSilent Level = "silent"
	LevelError  Level = "error"
	LevelWarn   Level = "warn"
	LevelInfo   Level = "info"
	LevelDebug  Level = "debug"
	LevelTrace  Level = "trace"
)

var warnOn = true

// SetLevel configures DebugOn/TraceOn/warnOn from a named level. Unknown
// levels are treated as LevelInfo.
func SetLevel(level Level) {
	DebugOn = false
	TraceOn = false
	warnOn = true

	switch level {
	case LevelSilent, LevelError:
		warnOn = false
	case LevelTrace:
		TraceOn = true
		DebugOn = true
	case LevelDebug:
		DebugOn = true
	}
}

// DEBUG prints a formatted message to stderr if DebugOn is set.
func DEBUG(format string, args ...interface{}) {
	if !DebugOn {
		return
	}
	PrintfStdErr(ansi.Sprintf("@c{DEBUG} > "+format+"\n", args...))
}

// TRACE prints a formatted message to stderr if TraceOn is set.
func TRACE(format string, args ...interface{}) {
	if !TraceOn {
		return
	}
	PrintfStdErr(ansi.Sprintf("@b{TRACE} > "+format+"\n", args...))
}

// WARN prints a formatted warning to stderr unless the level has silenced
// warnings.
func WARN(format string, args ...interface{}) {
	if !warnOn {
		return
	}
	PrintfStdErr(format + "\n", args...)
}

// PrintfStdErr writes a pre-formatted (or format+args) message straight to
// stderr, for user-facing CLI errors that bypass the DEBUG/TRACE gates.
func PrintfStdErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
