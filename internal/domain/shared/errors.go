package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrCreditExceeded   = NewDomainError("CREDIT_EXCEEDED", "Payment amount exceeds outstanding balance")
	ErrAllocationBounds = NewDomainError("ALLOCATION_BOUNDS", "Allocation exceeds invoice remaining balance")
	ErrStaleState       = NewDomainError("STALE_STATE", "Invoice balances changed since the session began")
	ErrSubmissionFailed = NewDomainError("SUBMISSION_FAILED", "Payment submission failed")
	ErrSubmitInFlight   = NewDomainError("SUBMISSION_IN_FLIGHT", "A submission is already in flight for this session")
)
