package core

import (
	"fmt"
)

// FatalError is the panic value raised by Fatal and by failed assertions.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return e.Message
}

// Fatal logs msg at error level and panics with a *FatalError. It is used for conditions the
// engine cannot continue from: invalid backend selection, invalid attachment combinations and
// incomplete framebuffers.
//
// Parameters:
//   - msg: the diagnostic message
//   - args: optional slog key/value pairs attached to the log line
func Fatal(msg string, args ...any) {
	Logger().Error(msg, args...)
	panic(&FatalError{Message: formatFatal(msg, args)})
}

// Assert calls Fatal when cond is false. Assertions are removed when building with the
// release tag, in which case a failed check is undefined behavior.
//
// Parameters:
//   - cond: the condition that must hold
//   - msg: the diagnostic message used when cond is false
//   - args: optional slog key/value pairs attached to the log line
func Assert(cond bool, msg string, args ...any) {
	if AssertionsEnabled && !cond {
		Fatal(msg, args...)
	}
}

func formatFatal(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf("%s %v", msg, args)
}
