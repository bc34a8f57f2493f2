package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures surfaced by the sync client
type ErrorKind string

const (
	// KindValidation is detected locally, before any network call is made
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindNetwork is a transport failure with no server response
	KindNetwork ErrorKind = "NETWORK_ERROR"
	// KindAuthorization means the credential is expired or invalid; it
	// triggers session invalidation in the coordinator
	KindAuthorization ErrorKind = "AUTHORIZATION_ERROR"
	// KindNotFound means the target record vanished server-side
	KindNotFound ErrorKind = "NOT_FOUND_ERROR"
	// KindServer covers every other rejected request
	KindServer ErrorKind = "SERVER_ERROR"
)

// Common application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
)

// Meal-collection specific errors
var (
	ErrMealNotFound     = errors.New("meal not found")
	ErrUnknownField     = errors.New("unknown mutable field")
	ErrRatingOutOfRange = errors.New("rating must be between 1.0 and 5.0 in 0.5 steps")
	ErrEmptyName        = errors.New("meal name must not be empty")
	ErrEmptySource      = errors.New("meal source must not be empty")
)

// AppError represents a classified application error with context
type AppError struct {
	Kind      ErrorKind              `json:"kind"`
	Message   string                 `json:"message"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(kind ErrorKind, message string, httpCode int) *AppError {
	return &AppError{
		Kind:     kind,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a locally-detected validation error
func NewValidationError(message string) *AppError {
	return NewAppError(KindValidation, message, http.StatusBadRequest)
}

// NewNetworkError creates a transport-level error (no server response)
func NewNetworkError(message string) *AppError {
	return NewAppError(KindNetwork, message, 0)
}

// NewAuthorizationError creates an expired/invalid-credential error
func NewAuthorizationError(message string) *AppError {
	return NewAppError(KindAuthorization, message, http.StatusForbidden)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(KindNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewServerError creates an error for any other rejected request
func NewServerError(message string, httpCode int) *AppError {
	return NewAppError(KindServer, message, httpCode)
}

// MutationFailed carries the failure of a remote mutation after the cache
// has been restored to a consistent state.
type MutationFailed struct {
	RecordID string
	Field    string
	Cause    *AppError
}

// Error implements the error interface
func (m *MutationFailed) Error() string {
	if m.Field != "" {
		return fmt.Sprintf("mutation failed for meal %s field %s: %v", m.RecordID, m.Field, m.Cause)
	}
	return fmt.Sprintf("mutation failed for meal %s: %v", m.RecordID, m.Cause)
}

// Unwrap returns the classified cause
func (m *MutationFailed) Unwrap() error {
	return m.Cause
}

// NewMutationFailed wraps a classified error with mutation context
func NewMutationFailed(recordID, field string, cause *AppError) *MutationFailed {
	return &MutationFailed{RecordID: recordID, Field: field, Cause: cause}
}

// Helper functions for common error scenarios

// WrapError wraps an error with context, preserving an existing AppError
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewServerError(message, http.StatusInternalServerError).WithCause(err)
}

// AsAppError unwraps err into target, reporting whether it carries an
// AppError anywhere in its chain.
func AsAppError(err error, target **AppError) bool {
	return errors.As(err, target)
}

// KindOf returns the classification of err, or KindServer when unclassified
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// IsValidation checks if an error is a locally-detected validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == KindValidation
	}
	return errors.Is(err, ErrInvalidInput)
}

// IsNetwork checks if an error is a transport failure
func IsNetwork(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == KindNetwork
	}
	return false
}

// IsAuthorization checks if an error is a credential failure
func IsAuthorization(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == KindAuthorization
	}
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == KindNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMealNotFound) || errors.Is(err, ErrUserNotFound)
}
