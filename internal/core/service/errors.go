package service

import "errors"

type ValidationKind string

const (
	EmptyField        ValidationKind = "empty_field"
	DuplicateUsername ValidationKind = "duplicate_username"
)

// ValidationError is a user-correctable input problem. Nothing has been
// written when one is returned.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type AuthKind string

const (
	UnknownUsername AuthKind = "unknown_username"
	BadPassword     AuthKind = "bad_password"
)

// AuthError is a failed credential check. Both kinds are handled the same
// way by callers; only the message differs.
type AuthError struct {
	Kind    AuthKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func emptyField(field, message string) *ValidationError {
	return &ValidationError{Kind: EmptyField, Field: field, Message: message}
}

// UserMessage returns the message to show inline for validation and
// authentication failures. ok is false for every other error.
func UserMessage(err error) (message string, ok bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message, true
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message, true
	}
	return "", false
}
