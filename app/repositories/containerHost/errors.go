package host

import (
	"net/http"
)

type Error struct {
	StatusCode int
	message    string
}

func newError(message string, status int) Error {
	return Error{status, message}
}

func (e Error) Error() string {
	return e.message
}

var (
	ErrHostExists          error = newError("container already exists", http.StatusConflict)
	ErrTemplateUnavailable error = newError("container template unavailable", http.StatusNotFound)
	ErrHostNotReady        error = newError("container did not become ready", http.StatusServiceUnavailable)
)
