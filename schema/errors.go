package schema

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can react without string matching.
type ErrorKind string

// All error kinds raised by the pipeline and its loaders.
const (
	MalformedInput    ErrorKind = "malformed_input"
	EmptyGroup        ErrorKind = "empty_group"
	DuplicateRegion   ErrorKind = "duplicate_region"
	SourceUnavailable ErrorKind = "source_unavailable"
)

// Error is the typed error surfaced to every consumer of a chart pipeline.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// Sentinel errors for errors.Is comparisons. Matching is by Kind only.
var (
	ErrMalformedInput    = &Error{Kind: MalformedInput}
	ErrEmptyGroup        = &Error{Kind: EmptyGroup}
	ErrDuplicateRegion   = &Error{Kind: DuplicateRegion}
	ErrSourceUnavailable = &Error{Kind: SourceUnavailable}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a typed error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds a typed error around a cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind of err, or "" when err is not a typed pipeline error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
