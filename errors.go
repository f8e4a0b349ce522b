package serialkw

import (
	"errors"
	"fmt"
)

// Transport-level errors. These propagate to the caller unmodified; the
// host runner should treat them as unexpected errors, not test failures.
var (
	ErrPortNotOpen  = errors.New("serialkw: port is not open")
	ErrPortOpen     = errors.New("serialkw: port is already open")
	ErrNotSupported = errors.New("serialkw: operation not supported by transport")
)

// Failure is a keyword failure: an assertion mismatch or a usage error such
// as an unknown locator or parameter name. The host runner records it as a
// test failure and continues, while transport errors signal something
// unexpected.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	return f.Message
}

// failf builds a Failure with a formatted message.
func failf(format string, args ...any) error {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}

// IsFailure reports whether err is (or wraps) a keyword Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}
