// Package apierr defines the error taxonomy shared by the API surface.
// Handlers map a Kind to an HTTP status; services return these so transport
// concerns stay out of business code.
package apierr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBadRequest      Kind = "BAD_REQUEST"
	KindValidation      Kind = "VALIDATION"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindConflict        Kind = "CONFLICT"
	KindNotFound        Kind = "NOT_FOUND"
	KindInternal        Kind = "INTERNAL"
)

// Error carries a kind, a user-facing message and, for validation failures,
// per-field detail. Collaborator errors are wrapped, never surfaced.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps the collaborator error for logs while hiding it from clients.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation builds a field-level validation error.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// KindOf extracts the Kind from err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message, or a generic one for foreign
// errors so collaborator detail never leaks to clients.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}

// FieldsOf returns the field detail map, if any.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
