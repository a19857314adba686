package bridge

import (
	"errors"
	"fmt"

	"github.com/five82/quickscript/internal/backend"
)

// Kind classifies a failed operation.
type Kind int

const (
	KindUnknown Kind = iota
	// KindLocalIO: file missing, unreadable or unwritable, or a path with no file name.
	KindLocalIO
	// KindTransport: the request was not sent or the response not received.
	KindTransport
	// KindDecode: the body was not the expected JSON, or local text was not UTF-8.
	KindDecode
	// KindRemote: the backend answered with a non-success status.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindLocalIO:
		return "local_io"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is the failure returned by every Shell operation.
type Error struct {
	Kind Kind
	Op   string // operation name, e.g. "submit_file"
	Path string // local path involved, if any

	// StatusCode and Status are set for KindRemote, e.g. 404 and "404 Not Found".
	StatusCode int
	Status     string

	msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.msg
	}
	return e.msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message renders err as the text shown to the user. It returns "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func localIOError(op, path, msg string, err error) *Error {
	return &Error{Kind: KindLocalIO, Op: op, Path: path, msg: msg, Err: err}
}

func decodeError(op, path, msg string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Path: path, msg: msg, Err: err}
}

// remoteCallError classifies an error from the backend client. prefix is used
// for non-success statuses, e.g. "failed to download result".
func remoteCallError(op, prefix string, err error) *Error {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		e := &Error{
			Kind:       KindRemote,
			Op:         op,
			StatusCode: statusErr.StatusCode,
			Status:     statusErr.StatusText(),
			msg:        fmt.Sprintf("%s: %s", prefix, statusErr.StatusText()),
		}
		if statusErr.Detail != "" {
			e.msg += " (" + statusErr.Detail + ")"
		}
		return e
	}
	var decodeErr *backend.DecodeError
	if errors.As(err, &decodeErr) {
		return &Error{Kind: KindDecode, Op: op, msg: "failed to parse response", Err: decodeErr.Err}
	}
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return &Error{Kind: KindTransport, Op: op, msg: "backend request failed", Err: transportErr.Err}
	}
	return &Error{Kind: KindTransport, Op: op, msg: "backend request failed", Err: err}
}
