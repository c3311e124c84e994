// Package common defines shared constants and sentinel errors used across
// the repository, service and handler layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")
	ErrNotImplemented = errors.New("not implemented")

	// Template/note specific conditions reported by the store.
	ErrTemplateStructureLocked = errors.New("TEMPLATE_STRUCTURE_LOCKED")
	ErrTemplateFieldInUse      = errors.New("TEMPLATE_FIELD_IN_USE")
	ErrTemplateInUse           = errors.New("TEMPLATE_IN_USE")
	ErrSectionFieldMismatch    = errors.New("section field does not belong to the note template")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ForbiddenError reports that the acting identity may not perform an
// operation. It matches ErrorForbidden and unwraps to Cause, if any.
type ForbiddenError struct {
	Reason string
	Cause  error
}

// NewForbidden returns a ForbiddenError with the given reason.
func NewForbidden(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// NewUnauthenticated returns a ForbiddenError for requests without a session.
func NewUnauthenticated() *ForbiddenError {
	return &ForbiddenError{Reason: "authentication required", Cause: ErrorUnauthorized}
}

func (e *ForbiddenError) Error() string {
	return "Forbidden: " + e.Reason
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrorForbidden
}

func (e *ForbiddenError) Unwrap() error {
	return e.Cause
}

// MessageError replaces the message of Err with a user-facing one while
// keeping Err reachable through errors.Is / errors.As.
type MessageError struct {
	Message string
	Err     error
}

func (e *MessageError) Error() string {
	return e.Message
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// IsTemplateLocked reports whether err is one of the two store signals for a
// template whose field set is locked by existing notes.
func IsTemplateLocked(err error) bool {
	return errors.Is(err, ErrTemplateStructureLocked) || errors.Is(err, ErrTemplateFieldInUse)
}
