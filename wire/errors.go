package wire

import "errors"

// Error is the structured error type for wire-level failures.
//
// Status is the closed failure category defined by the protocol; it is what
// a service serializes back across the wire when a request cannot be
// decoded or executed. Callers should branch on Status rather than matching
// error strings.
//
// I/O failures from the underlying stream are never wrapped in an Error:
// they propagate unchanged so the transport owner can tell a broken
// connection apart from a protocol violation.
type Error struct {
	Status  Status
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns an *Error with the given status and message.
func NewError(status Status, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// WrapError returns an *Error carrying cause for errors.Is/As chains.
func WrapError(status Status, msg string, cause error) *Error {
	return &Error{Status: status, Message: msg, Cause: cause}
}

// StatusOf maps err to the Status a response header should carry.
// A nil error maps to StatusSuccess; an error that is not (and does not
// wrap) an *Error maps to StatusInternalError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return StatusInternalError
}

// IsStatus reports whether err is (or wraps) an *Error with the given status.
func IsStatus(err error, status Status) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Status == status
}
