// Package validate carries the error type services use to reject bad
// input. Handlers map it to a 400 response; every other error escapes
// to the server error handler, which hides it behind a generic 500.
package validate

import (
	"errors"
	"fmt"
)

// Error marks input the caller can correct. Its message is safe to
// return in a response body.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// Errorf builds an input validation error.
func Errorf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// IsError reports whether err is, or wraps, a validation error.
func IsError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
