package dto

import (
	"net/http"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Error codes returned in the response envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeStorage is used when the database or another backing store failed;
	// the request may be retried unchanged.
	ErrCodeStorage = "ERR_STORAGE_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeAlreadyConverted    = "ERR_ALREADY_CONVERTED"
	ErrCodeFolioAssigned       = "ERR_FOLIO_ALREADY_ASSIGNED"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is not allowed in the
	// document's current status
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeStorage:  http.StatusServiceUnavailable,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeAlreadyConverted:    http.StatusConflict,
	ErrCodeFolioAssigned:       http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// kindStatus maps each domain error kind to its HTTP status. The kind decides
// the status; the code only refines the message clients see.
var kindStatus = map[shared.ErrorKind]int{
	shared.KindValidation:             http.StatusBadRequest,
	shared.KindNotFound:               http.StatusNotFound,
	shared.KindConflict:               http.StatusConflict,
	shared.KindInvalidStateTransition: http.StatusUnprocessableEntity,
	shared.KindStorage:                http.StatusServiceUnavailable,
}

// kindCode is the fallback response code for a kind
var kindCode = map[shared.ErrorKind]string{
	shared.KindValidation:             ErrCodeValidation,
	shared.KindNotFound:               ErrCodeNotFound,
	shared.KindConflict:               ErrCodeConflict,
	shared.KindInvalidStateTransition: ErrCodeInvalidState,
	shared.KindStorage:                ErrCodeStorage,
}

// StatusForKind returns the HTTP status for a domain error kind
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to response codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":   ErrCodeConcurrencyConflict,
	"ALREADY_CONVERTED":      ErrCodeAlreadyConverted,
	"FOLIO_ALREADY_ASSIGNED": ErrCodeFolioAssigned,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"STORAGE_ERROR":          ErrCodeStorage,
}

// CodeForDomainError converts a domain error to its response code. Unknown
// domain codes fall back to the generic code of their kind.
func CodeForDomainError(err *shared.DomainError) string {
	if code, ok := DomainErrorCodeMapping[err.Code]; ok {
		return code
	}
	if code, ok := kindCode[err.Kind]; ok {
		return code
	}
	return ErrCodeUnknown
}
