package backend

import (
	"fmt"
	"net/http"
	"strconv"
)

// TransportError means the request could not be sent or no complete response
// was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// StatusText renders the code the way HTTP clients print it, e.g. "404 Not Found".
func (e *StatusError) StatusText() string {
	return StatusText(e.StatusCode)
}

// StatusText renders an HTTP status code with its canonical reason phrase.
func StatusText(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code) + " " + text
}

// DecodeError means the response body did not have the expected JSON shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
