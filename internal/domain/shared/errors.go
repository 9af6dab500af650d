package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError. Callers branch on the kind, never on the message.
type ErrorKind string

const (
	KindValidation             ErrorKind = "VALIDATION"
	KindInvalidStateTransition ErrorKind = "INVALID_STATE_TRANSITION"
	KindConflict               ErrorKind = "CONFLICT"
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindStorage                ErrorKind = "STORAGE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	// CurrentStatus is set for invalid state transitions so callers can report
	// where the document actually is.
	CurrentStatus string `json:"current_status,omitempty"`
	cause         error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches two domain errors by kind and code, which lets the sentinel
// values below be used with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Retryable reports whether the operation may succeed if repeated unchanged.
func (e *DomainError) Retryable() bool {
	return e.Kind == KindStorage
}

// NewDomainError creates a new validation-kind domain error.
// Kept for call sites that only need a code and a message.
func NewDomainError(code, message string) *DomainError {
	return NewValidationError(code, message)
}

// NewValidationError reports input that violates a domain rule
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewInvalidTransitionError reports an operation not allowed in the current status
func NewInvalidTransitionError(currentStatus, message string) *DomainError {
	return &DomainError{
		Kind:          KindInvalidStateTransition,
		Code:          "INVALID_STATE",
		Message:       message,
		CurrentStatus: currentStatus,
	}
}

// NewConflictError reports a lost race or a duplicate operation
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewNotFoundError reports a missing aggregate or child entity
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewStorageError wraps an infrastructure failure. It is the only retryable kind.
func NewStorageError(message string, cause error) *DomainError {
	return &DomainError{Kind: KindStorage, Code: "STORAGE_ERROR", Message: message, cause: cause}
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)

func kindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsInvalidStateTransition reports whether err is an invalid state transition
func IsInvalidStateTransition(err error) bool { return kindOf(err) == KindInvalidStateTransition }

// IsConflict reports whether err is a conflict
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsStorage reports whether err is a storage error
func IsStorage(err error) bool { return kindOf(err) == KindStorage }

// CurrentStatusOf extracts the status carried by an invalid transition error
func CurrentStatusOf(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) && de.Kind == KindInvalidStateTransition {
		return de.CurrentStatus, true
	}
	return "", false
}
