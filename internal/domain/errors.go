package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags an error with the category the HTTP boundary needs to pick
// a status code. Errors travel up through result values, not panics.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindVerification
	KindConflict
	KindUpstream
	KindNotFound
)

// Error is a tagged domain error.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports missing or invalid caller input.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Verification reports a signature mismatch. Distinct from validation even
// though both map to HTTP 400.
func Verification(msg string) error {
	return &Error{Kind: KindVerification, Message: msg}
}

// Conflictf reports an operation rejected by the current domain state.
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a gateway or database failure.
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// NotFound reports a missing entity.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf extracts the kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
