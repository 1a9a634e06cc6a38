// Package apperr defines the error type shared across babytimer packages.
package apperr

import "fmt"

// Error is an application error. Package-level values act as sentinels:
// copies produced by Fmt or Wrap still match the original with errors.Is.
type Error struct {
	Message string
	Err     error
	root    *Error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.base() == t.base()
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Err:     e.Err,
		root:    e.base(),
	}
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Err:     err,
		root:    e.base(),
	}
}

func (e *Error) base() *Error {
	if e.root != nil {
		return e.root
	}

	return e
}
