package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so the transport layer can map it to
// a status code without inspecting message text.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindStoreUnavailable:
		return "store_unavailable"
	}
	return "unknown"
}

// Error is a domain error with a kind, a human-readable message and an
// optional wrapped cause.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes errors.Is(err, apperr.New(kind, ...)) match on kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.kind == t.kind
}

func (e *Error) Kind() Kind { return e.kind }

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf returns the kind of err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
