package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for callers deciding how to react.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindStorage           Kind = "storage"
)

// Error is the typed outcome returned by the scheduling core for expected failures.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds one message per invalid input field.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same call may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorage
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound is the validation variant used when a referenced record does not exist.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage unavailable, retry later", Err: err}
}

// KindOf returns the Kind of err, or an empty Kind when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsValidation is true for validation errors and their not-found variant.
func IsValidation(err error) bool {
	kind := KindOf(err)
	return kind == KindValidation || kind == KindNotFound
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

func IsInvalidTransition(err error) bool {
	return KindOf(err) == KindInvalidTransition
}

func IsStorage(err error) bool {
	return KindOf(err) == KindStorage
}
