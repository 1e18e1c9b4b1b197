package payables

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError is a validation failure scoped to a single session field.
// Validation never raises across the engine boundary; gating functions return
// a list of these and an empty list means the transition may proceed.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Field error codes
const (
	FieldCodeInvalidAmount    = "INVALID_AMOUNT"
	FieldCodeCreditExceeded   = "CREDIT_EXCEEDED"
	FieldCodeInvalidMethod    = "INVALID_PAYMENT_METHOD"
	FieldCodeMissingDetail    = "MISSING_METHOD_DETAIL"
	FieldCodeEmptyAllocations = "EMPTY_ALLOCATIONS"
	FieldCodeOverAllocated    = "OVER_ALLOCATED"
	FieldCodeAllocationBounds = "ALLOCATION_BOUNDS"
	FieldCodeUnknownInvoice   = "UNKNOWN_INVOICE"
	FieldCodeStaleBalance     = "STALE_BALANCE"
)

// ValidationError carries field errors across an error-returning boundary
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError wraps field errors as an error value
func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ValidateDetails gates the DETAILS -> REVIEW transition. It checks the
// entered payment details against the account snapshot and is side-effect
// free; callers may re-run it after any edit.
func ValidateDetails(session *PaymentSession, account *SupplierAccount) []FieldError {
	var errs []FieldError

	if session.PaymentAmount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, FieldError{
			Field:   "payment_amount",
			Code:    FieldCodeInvalidAmount,
			Message: "Payment amount must be greater than zero",
		})
	} else if session.PaymentAmount.GreaterThan(account.CurrentBalance) {
		// Overpayment would create a supplier credit balance; the ledger of
		// record does not model one, so the stricter bound is enforced here.
		errs = append(errs, FieldError{
			Field: "payment_amount",
			Code:  FieldCodeCreditExceeded,
			Message: fmt.Sprintf("Payment amount %s exceeds outstanding balance %s",
				session.PaymentAmount.StringFixed(2), account.CurrentBalance.StringFixed(2)),
		})
	}

	if !session.PaymentMethod.IsValid() {
		errs = append(errs, FieldError{
			Field:   "payment_method",
			Code:    FieldCodeInvalidMethod,
			Message: "Payment method must be CASH or BANK_TRANSFER",
		})
	} else if !session.MethodDetail.Complete(session.PaymentMethod) {
		errs = append(errs, missingDetailError(session.PaymentMethod))
	}

	return errs
}

// ValidateForSubmission gates the REVIEW -> SUBMITTING transition. Allocation
// bounds are re-checked against the snapshot to catch edits made during the
// session; over-allocation is rejected here, never clamped.
func ValidateForSubmission(session *PaymentSession) []FieldError {
	var errs []FieldError

	if len(session.Allocations) == 0 {
		errs = append(errs, FieldError{
			Field:   "allocations",
			Code:    FieldCodeEmptyAllocations,
			Message: "At least one allocation is required",
		})
	}

	total := session.TotalAllocated()
	if total.GreaterThan(session.PaymentAmount) {
		errs = append(errs, FieldError{
			Field: "allocations",
			Code:  FieldCodeOverAllocated,
			Message: fmt.Sprintf("Allocated total %s exceeds payment amount %s",
				total.StringFixed(2), session.PaymentAmount.StringFixed(2)),
		})
	}

	for _, alloc := range session.Allocations {
		inv, ok := session.Account.Invoice(alloc.InvoiceID)
		if !ok {
			errs = append(errs, FieldError{
				Field:   allocationField(alloc),
				Code:    FieldCodeUnknownInvoice,
				Message: "Allocation references an invoice outside the session snapshot",
			})
			continue
		}
		if alloc.Amount.GreaterThan(inv.RemainingBalance) {
			errs = append(errs, FieldError{
				Field: allocationField(alloc),
				Code:  FieldCodeAllocationBounds,
				Message: fmt.Sprintf("Allocation %s exceeds remaining balance %s of invoice %s",
					alloc.Amount.StringFixed(2), inv.RemainingBalance.StringFixed(2), inv.InvoiceNumber),
			})
		}
	}

	// Defensive re-check of the method-specific field.
	if session.PaymentMethod.IsValid() && !session.MethodDetail.Complete(session.PaymentMethod) {
		errs = append(errs, missingDetailError(session.PaymentMethod))
	}

	return errs
}

// ValidateAgainstFresh re-checks every allocation against a freshly fetched
// account view. A non-empty result means the snapshot went stale: some
// remaining balance shrank (or an invoice was settled) since the session
// began, and submission must be blocked until the user re-allocates.
func ValidateAgainstFresh(session *PaymentSession, fresh *SupplierAccount) []FieldError {
	var errs []FieldError

	for _, alloc := range session.Allocations {
		inv, ok := fresh.Invoice(alloc.InvoiceID)
		if !ok {
			errs = append(errs, FieldError{
				Field:   allocationField(alloc),
				Code:    FieldCodeStaleBalance,
				Message: "Invoice is no longer outstanding",
			})
			continue
		}
		if alloc.Amount.GreaterThan(inv.RemainingBalance) {
			errs = append(errs, FieldError{
				Field: allocationField(alloc),
				Code:  FieldCodeStaleBalance,
				Message: fmt.Sprintf("Remaining balance of invoice %s dropped to %s below allocated %s",
					inv.InvoiceNumber, inv.RemainingBalance.StringFixed(2), alloc.Amount.StringFixed(2)),
			})
		}
	}

	return errs
}

func missingDetailError(method PaymentMethod) FieldError {
	field := "method_detail.station_id"
	message := "Station is required for cash payments"
	if method == PaymentMethodBankTransfer {
		field = "method_detail.bank_account_id"
		message = "Bank account is required for bank transfers"
	}
	return FieldError{Field: field, Code: FieldCodeMissingDetail, Message: message}
}

func allocationField(alloc Allocation) string {
	return "allocations." + alloc.InvoiceID.String()
}
