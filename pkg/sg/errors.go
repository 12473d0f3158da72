package sg

import (
	"fmt"

	"github.com/starkandwayne/goutils/ansi"

	"github.com/wayneeseguin/sgcore/internal/log"
)

// ErrorKind categorizes a KernelError "Misuse" class:
// asserted, fatal in debug/strict-mode builds.
type ErrorKind string

const (
	// TypeCollision: a type name was redefined with a different parent.
	TypeCollision ErrorKind = "type_collision"
	// DispatchMisuse: apply called before the dispatch table was set up.
	DispatchMisuse ErrorKind = "dispatch_misuse"
	// StateUnderflow: State.Pop called with no matching Push.
	StateUnderflow ErrorKind = "state_underflow"
	// PathMisuse: an operation on a Path/TempPath violated its invariants.
	// No function in this package returns it: GetIndex(0) returns -1 and an
	// Append past MaxPathDepth emits a TraversalWarning.
	PathMisuse ErrorKind = "path_misuse"
)

// KernelError is the kernel's fatal-misuse error type. Outside of strict
// mode these are only ever returned, never panicked.
type KernelError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *KernelError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *KernelError) Unwrap() error {
	return e.Cause
}

// IsKernelError reports whether err is a *KernelError, optionally of a
// specific Kind (pass "" to match any kind).
func IsKernelError(err error, kind ErrorKind) bool {
	ke, ok := err.(*KernelError)
	if !ok {
		return false
	}
	return kind == "" || ke.Kind == kind
}

// strictMode is toggled by internal/config's Kernel.StrictMode: when set,
// TraversalWarning.Warn panics instead of logging rather than silencing it.
var strictMode bool

// SetStrictMode controls whether TraversalWarning.Warn panics (true) or
// merely logs (false, the default). Intended for test and debug builds.
func SetStrictMode(strict bool) {
	strictMode = strict
}

var silenceWarnings bool

// SilenceWarnings suppresses TraversalWarning output when should is true.
func SilenceWarnings(should bool) {
	silenceWarnings = should
}

// TraversalWarning represents one of "recoverable warnings":
// traversal continues, but the condition is logged (or, in strict mode,
// promoted to a panic).
type TraversalWarning struct {
	Message string
}

// NewTraversalWarning formats a new TraversalWarning.
func NewTraversalWarning(format string, args ...interface{}) TraversalWarning {
	return TraversalWarning{Message: fmt.Sprintf(format, args...)}
}

func (w TraversalWarning) Error() string {
	return w.Message
}

// Warn emits the warning through internal/log, or panics if strict mode is
// enabled.
func (w TraversalWarning) Warn() {
	if strictMode {
		panic(w.Message)
	}
	if silenceWarnings {
		return
	}
	log.WARN("%s", ansi.Sprintf("@Y{warning:} %s", w.Message))
}
