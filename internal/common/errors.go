package common

import (
	"errors"
	"fmt"
)

// ErrKind classifies every externally observable failure of the relay.
type ErrKind string

const (
	ErrInvalidArgument ErrKind = "invalid_argument"
	ErrNotFound        ErrKind = "not_found"
	ErrInactive        ErrKind = "inactive"
	ErrUnreachable     ErrKind = "backend_unreachable"
	ErrBackend         ErrKind = "backend_error"
	ErrAuth            ErrKind = "auth_error"
	ErrUnsupported     ErrKind = "unsupported_provider"
	ErrInternal        ErrKind = "internal"
)

// Error is the structured error surfaced to API callers. Upstream holds the
// HTTP status returned by a backend, when one was observed.
type Error struct {
	Kind     ErrKind
	Upstream int
	Message  string
}

func (e *Error) Error() string { return e.Message }

func E(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// EUpstream builds a backend error that remembers the upstream status.
func EUpstream(kind ErrKind, status int, format string, args ...any) *Error {
	return &Error{Kind: kind, Upstream: status, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or ErrInternal for foreign errors.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrInternal
}

// UpstreamOf reports the upstream HTTP status carried by err, if any.
func UpstreamOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Upstream
	}
	return 0
}
