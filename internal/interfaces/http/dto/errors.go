package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeStaleState is used when invoice balances changed since the
	// session snapshot was taken
	ErrCodeStaleState = "ERR_STALE_STATE"
	// ErrCodeSubmitInFlight is used when a submission is already running
	// for the session
	ErrCodeSubmitInFlight = "ERR_SUBMISSION_IN_FLIGHT"
)

// Business rule error codes
const (
	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeCreditExceeded   = "ERR_CREDIT_EXCEEDED"
	ErrCodeAllocationBounds = "ERR_ALLOCATION_BOUNDS"
	ErrCodeBusinessRule     = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Upstream error codes
const (
	// ErrCodeSubmissionFailed is used when the treasury rejected or the
	// payment call failed
	ErrCodeSubmissionFailed = "ERR_SUBMISSION_FAILED"
	ErrCodeUpstream         = "ERR_UPSTREAM"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 422 Unprocessable Entity
	ErrCodeValidation: http.StatusUnprocessableEntity,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeConflict:       http.StatusConflict,
	ErrCodeStaleState:     http.StatusConflict,
	ErrCodeSubmitInFlight: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeCreditExceeded:   http.StatusUnprocessableEntity,
	ErrCodeAllocationBounds: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:     http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Upstream errors -> 502 Bad Gateway
	ErrCodeSubmissionFailed: http.StatusBadGateway,
	ErrCodeUpstream:         http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_ACCOUNT":        ErrCodeBadRequest,
	"INVALID_SESSION":        ErrCodeBadRequest,
	"INVALID_STATE":          ErrCodeInvalidState,
	"INVALID_STATUS":         ErrCodeInvalidState,
	"INVALID_AMOUNT":         ErrCodeValidation,
	"INVALID_PAYMENT_METHOD": ErrCodeValidation,
	"EMPTY_ALLOCATIONS":      ErrCodeValidation,
	"CREDIT_EXCEEDED":        ErrCodeCreditExceeded,
	"ALLOCATION_BOUNDS":      ErrCodeAllocationBounds,
	"STALE_STATE":            ErrCodeStaleState,
	"STALE_BALANCE":          ErrCodeStaleState,
	"SUBMISSION_FAILED":      ErrCodeSubmissionFailed,
	"SUBMISSION_IN_FLIGHT":   ErrCodeSubmitInFlight,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
