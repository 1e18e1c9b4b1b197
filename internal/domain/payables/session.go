package payables

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared/valueobject"
)

// Step represents where a payment session is in its workflow
type Step string

const (
	StepDetails    Step = "DETAILS"    // data entry: amount, method, allocations
	StepReview     Step = "REVIEW"     // read-only confirmation of the entered payment
	StepSubmitting Step = "SUBMITTING" // the external money movement call is in flight
	StepComplete   Step = "COMPLETE"   // terminal: payment applied, result attached
	StepFailed     Step = "FAILED"     // submission failed, data retained for retry
	StepCancelled  Step = "CANCELLED"  // terminal: discarded without external effects
)

// IsValid checks if the step is a recognized Step
func (s Step) IsValid() bool {
	switch s {
	case StepDetails, StepReview, StepSubmitting, StepComplete, StepFailed, StepCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s Step) IsTerminal() bool {
	return s == StepComplete || s == StepCancelled
}

// CanEdit returns true if session fields and allocations may be mutated
func (s Step) CanEdit() bool {
	return s == StepDetails
}

// String returns the string representation of Step
func (s Step) String() string {
	return string(s)
}

// Event is a workflow trigger fed to Transition
type Event string

const (
	EventProceed Event = "PROCEED" // DETAILS -> REVIEW (validation gated by caller)
	EventBack    Event = "BACK"    // REVIEW -> DETAILS, preserving entered data
	EventSubmit  Event = "SUBMIT"  // REVIEW -> SUBMITTING
	EventSucceed Event = "SUCCEED" // SUBMITTING -> COMPLETE
	EventFail    Event = "FAIL"    // SUBMITTING -> FAILED
	EventRetry   Event = "RETRY"   // FAILED -> REVIEW, user-initiated
	EventCancel  Event = "CANCEL"  // DETAILS/REVIEW/FAILED -> CANCELLED
)

// Transition is the pure workflow function. It maps a (step, event) pair to
// the next step or an INVALID_STATE error, with no dependence on session
// contents; validation gating happens in the callers that emit events.
func Transition(current Step, event Event) (Step, error) {
	switch event {
	case EventProceed:
		if current == StepDetails {
			return StepReview, nil
		}
	case EventBack:
		if current == StepReview {
			return StepDetails, nil
		}
	case EventSubmit:
		if current == StepReview {
			return StepSubmitting, nil
		}
	case EventSucceed:
		if current == StepSubmitting {
			return StepComplete, nil
		}
	case EventFail:
		if current == StepSubmitting {
			return StepFailed, nil
		}
	case EventRetry:
		if current == StepFailed {
			return StepReview, nil
		}
	case EventCancel:
		// SUBMITTING cannot be abandoned: the external call may still land.
		if current == StepDetails || current == StepReview || current == StepFailed {
			return StepCancelled, nil
		}
	}
	return current, shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot apply %s in %s step", event, current))
}

// PaymentSession is the mutable unit of work for one payment interaction.
// It owns the supplier snapshot, the entered details and the allocation set
// from the moment the payment form opens until submission or cancellation.
type PaymentSession struct {
	shared.BaseEntity
	SupplierAccountID uuid.UUID         `json:"supplier_account_id"`
	Account           SupplierAccount   `json:"account"` // snapshot, read-only
	PaymentAmount     decimal.Decimal   `json:"payment_amount"`
	PaymentMethod     PaymentMethod     `json:"payment_method"`
	MethodDetail      MethodDetail      `json:"method_detail"`
	ApplicationMethod ApplicationMethod `json:"application_method"`
	Allocations       []Allocation      `json:"allocations"`
	Description       string            `json:"description"`
	Reference         string            `json:"reference"`
	CurrentStep       Step              `json:"current_step"`
	Result            *PaymentResult    `json:"result,omitempty"`
	FailureReason     string            `json:"failure_reason,omitempty"`
}

// NewPaymentSession opens a session against a supplier account snapshot
func NewPaymentSession(account SupplierAccount) (*PaymentSession, error) {
	if account.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Supplier account ID cannot be empty")
	}
	for _, inv := range account.OutstandingInvoices {
		if err := inv.Validate(); err != nil {
			return nil, err
		}
	}
	return &PaymentSession{
		BaseEntity:        shared.NewBaseEntity(),
		SupplierAccountID: account.ID,
		Account:           account,
		PaymentAmount:     decimal.Zero,
		ApplicationMethod: ApplicationMethodOldestFirst,
		Allocations:       make([]Allocation, 0),
		CurrentStep:       StepDetails,
	}, nil
}

// SetDetails updates the entered payment details. Allowed only in DETAILS;
// validation is deferred to the review gate so partial entry is fine.
func (s *PaymentSession) SetDetails(amount decimal.Decimal, method PaymentMethod, detail MethodDetail, description, reference string) error {
	if !s.CurrentStep.CanEdit() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot edit details in %s step", s.CurrentStep))
	}
	s.PaymentAmount = amount
	s.PaymentMethod = method
	s.MethodDetail = detail
	s.Description = description
	s.Reference = reference
	s.Touch()
	return nil
}

// ApplyOldestFirst replaces the allocation set with the automatic
// oldest-first distribution of the entered payment amount.
// Returns the unallocated leftover.
func (s *PaymentSession) ApplyOldestFirst() (decimal.Decimal, error) {
	if !s.CurrentStep.CanEdit() {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change allocations in %s step", s.CurrentStep))
	}
	allocations, leftover, err := AutoAllocate(s.PaymentAmount, s.Account.OutstandingInvoices)
	if err != nil {
		return decimal.Zero, err
	}
	s.ApplicationMethod = ApplicationMethodOldestFirst
	s.Allocations = allocations
	s.Touch()
	return leftover, nil
}

// AddOrUpdateAllocation records a manual allocation for one invoice,
// replacing any existing entry. The amount is clamped to the invoice's
// remaining balance; zero (after clamping) removes the entry. The total
// allocation sum is deliberately not checked here - re-validation happens
// at the review and submission gates.
func (s *PaymentSession) AddOrUpdateAllocation(invoiceID uuid.UUID, amount decimal.Decimal) (*Allocation, error) {
	if !s.CurrentStep.CanEdit() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change allocations in %s step", s.CurrentStep))
	}
	inv, ok := s.Account.Invoice(invoiceID)
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice is not in the session snapshot")
	}

	clamped := valueobject.NewMoney(amount).
		Clamp(valueobject.ZeroMoney(), valueobject.NewMoney(inv.RemainingBalance)).
		Amount()
	s.ApplicationMethod = ApplicationMethodManual

	if clamped.IsZero() {
		s.RemoveAllocation(invoiceID)
		return &Allocation{InvoiceID: invoiceID, Amount: decimal.Zero}, nil
	}

	for i := range s.Allocations {
		if s.Allocations[i].InvoiceID == invoiceID {
			s.Allocations[i].Amount = clamped
			s.Touch()
			return &s.Allocations[i], nil
		}
	}

	s.Allocations = append(s.Allocations, Allocation{InvoiceID: invoiceID, Amount: clamped})
	s.Touch()
	return &s.Allocations[len(s.Allocations)-1], nil
}

// RemoveAllocation deletes the allocation for an invoice; no-op if absent
func (s *PaymentSession) RemoveAllocation(invoiceID uuid.UUID) {
	for i := range s.Allocations {
		if s.Allocations[i].InvoiceID == invoiceID {
			s.Allocations = append(s.Allocations[:i], s.Allocations[i+1:]...)
			s.Touch()
			return
		}
	}
}

// TotalAllocated sums the current allocation amounts
func (s *PaymentSession) TotalAllocated() decimal.Decimal {
	return SumAllocations(s.Allocations)
}

// CreditBalance returns paymentAmount - totalAllocated.
// Positive means the payment is under-allocated.
func (s *PaymentSession) CreditBalance() decimal.Decimal {
	return s.PaymentAmount.Sub(s.TotalAllocated())
}

// ProceedToReview gates DETAILS -> REVIEW. Detail validation must pass and
// at least one allocation must exist; otherwise the session stays in DETAILS
// and the field errors are returned.
func (s *PaymentSession) ProceedToReview() []FieldError {
	errs := ValidateDetails(s, &s.Account)
	if len(s.Allocations) == 0 {
		errs = append(errs, FieldError{
			Field:   "allocations",
			Code:    FieldCodeEmptyAllocations,
			Message: "At least one allocation is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	next, err := Transition(s.CurrentStep, EventProceed)
	if err != nil {
		return []FieldError{{Field: "current_step", Code: "INVALID_STATE", Message: err.Error()}}
	}
	s.CurrentStep = next
	s.Touch()
	return nil
}

// Back returns from REVIEW to DETAILS, preserving all entered data
func (s *PaymentSession) Back() error {
	next, err := Transition(s.CurrentStep, EventBack)
	if err != nil {
		return err
	}
	s.CurrentStep = next
	s.Touch()
	return nil
}

// BeginSubmission gates REVIEW -> SUBMITTING. Submission validation must
// pass; the SUBMITTING step then blocks edits and concurrent submissions
// until the external call resolves.
func (s *PaymentSession) BeginSubmission() []FieldError {
	if errs := ValidateForSubmission(s); len(errs) > 0 {
		return errs
	}
	next, err := Transition(s.CurrentStep, EventSubmit)
	if err != nil {
		return []FieldError{{Field: "current_step", Code: "INVALID_STATE", Message: err.Error()}}
	}
	s.CurrentStep = next
	s.Touch()
	return nil
}

// CompleteSubmission records a successful external call.
// The session becomes read-only with the result attached.
func (s *PaymentSession) CompleteSubmission(result PaymentResult) error {
	next, err := Transition(s.CurrentStep, EventSucceed)
	if err != nil {
		return err
	}
	s.CurrentStep = next
	s.Result = &result
	s.FailureReason = ""
	s.Touch()
	return nil
}

// FailSubmission records a failed external call. Entered data is retained;
// no partial external state is assumed applied.
func (s *PaymentSession) FailSubmission(reason string) error {
	next, err := Transition(s.CurrentStep, EventFail)
	if err != nil {
		return err
	}
	s.CurrentStep = next
	s.FailureReason = reason
	s.Touch()
	return nil
}

// Retry acknowledges a failure and returns the session to REVIEW
func (s *PaymentSession) Retry() error {
	next, err := Transition(s.CurrentStep, EventRetry)
	if err != nil {
		return err
	}
	s.CurrentStep = next
	s.Touch()
	return nil
}

// Cancel discards the session. Nothing external has been mutated in any
// cancellable step, so no compensating action is needed.
func (s *PaymentSession) Cancel() error {
	next, err := Transition(s.CurrentStep, EventCancel)
	if err != nil {
		return err
	}
	s.CurrentStep = next
	s.Touch()
	return nil
}

// BuildRequest assembles the immutable submission payload from the session.
// Allocations are copied in order so the payload maps back to the session's
// allocation set exactly.
func (s *PaymentSession) BuildRequest() PaymentRequest {
	allocations := make([]Allocation, len(s.Allocations))
	copy(allocations, s.Allocations)
	return PaymentRequest{
		SupplierAccountID: s.SupplierAccountID,
		PaymentAmount:     s.PaymentAmount,
		PaymentMethod:     s.PaymentMethod,
		ApplicationMethod: s.ApplicationMethod,
		Allocations:       allocations,
		Description:       s.Description,
		Reference:         s.Reference,
		MethodDetail:      s.MethodDetail,
	}
}
