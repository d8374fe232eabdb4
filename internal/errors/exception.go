package errors

import (
	"errors"
	"net/http"
)

// Exception is an error the presentation side can turn into a user message.
// Err carries the underlying cause when the exception wraps one.
type Exception struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// Is matches any exception of the same kind, wrapped or not.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return t.Message == e.Message && t.StatusCode == e.StatusCode
}

func (e *Exception) Wrap(err error) *Exception {
	return &Exception{
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing part of err.
func Message(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
