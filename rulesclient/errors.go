package rulesclient

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the backend could not be reached, or when
// it answered with a non-2xx status.
type TransportError struct {
	// Status is the HTTP status code, 0 if no response was received.
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("request failed: %s", e.Err)
		}
		return "request failed"
	}
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ShapeError is returned when a response body does not match the schema the
// caller expects.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "malformed alert rules response: " + e.Reason
}

// Shapef builds a ShapeError from a format string.
func Shapef(format string, args ...interface{}) *ShapeError {
	return &ShapeError{Reason: fmt.Sprintf(format, args...)}
}
