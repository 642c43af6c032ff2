package client

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every failure returned by the resource clients.
// Not found, conflict and server errors all match it.
var ErrRequestFailed = errors.New("backend request failed")

// APIError describes one failed backend call.
type APIError struct {
	Method     string
	Path       string
	StatusCode int // zero for transport failures
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, ErrRequestFailed)
	}
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}
