package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

// Error kinds
const (
	KindInvalidInput   Kind = "INVALID_INPUT"
	KindNotFound       Kind = "NOT_FOUND"
	KindNoActiveUser   Kind = "NO_ACTIVE_USER"
	KindStorageFailure Kind = "STORAGE_FAILURE"
)

// Sentinels for errors.Is checks. An *AppError matches the sentinel of its kind.
var (
	ErrInvalidInput   = &AppError{Kind: KindInvalidInput}
	ErrNotFound       = &AppError{Kind: KindNotFound}
	ErrNoActiveUser   = &AppError{Kind: KindNoActiveUser}
	ErrStorageFailure = &AppError{Kind: KindStorageFailure}
)

// AppError represents a quiz error with a kind and an optional wrapped cause
type AppError struct {
	Kind    Kind   // Error kind (e.g., "NOT_FOUND", "INVALID_INPUT")
	Message string // Human-readable error message
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewInvalidInputError creates a new INVALID_INPUT error
func NewInvalidInputError(field string, reason string) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
	}
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

// NewNoActiveUserError creates a new NO_ACTIVE_USER error
func NewNoActiveUserError() *AppError {
	return &AppError{
		Kind:    KindNoActiveUser,
		Message: "no active user, resolve a username first",
	}
}

// NewStorageError wraps a persistence failure
func NewStorageError(err error) *AppError {
	return &AppError{
		Kind:    KindStorageFailure,
		Message: "storage failure",
		Err:     err,
	}
}

// KindOf returns the kind of the first *AppError in err's chain.
// Errors that are not AppErrors report KindStorageFailure, since anything
// unclassified comes from below the engine.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorageFailure
}
