package connections

import (
	"fmt"
)

type ConnectionError struct {
	target string
	err    error
}

func NewConnectionError(err error, target string) ConnectionError {
	return ConnectionError{target: target, err: err}
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.target, e.err)
}

func (e ConnectionError) Unwrap() error {
	return e.err
}
