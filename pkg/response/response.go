// Package response defines the typed error the handler layer maps to HTTP
// status codes.
package response

import (
	"errors"
)

// Error couples an HTTP status code with the underlying error. Sentinels
// built with NewError compare equal under errors.Is when code and message
// match.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}
