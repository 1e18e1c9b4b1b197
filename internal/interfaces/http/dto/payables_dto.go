package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
)

// OpenSessionRequest opens a payment session for a supplier
type OpenSessionRequest struct {
	SupplierAccountID uuid.UUID `json:"supplier_account_id" binding:"required"`
}

// UpdateDetailsRequest carries edited payment details. Amounts are not
// bound-checked here; detail validation happens at the review gate so
// partial entry round-trips cleanly.
type UpdateDetailsRequest struct {
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER"`
	StationID     *uuid.UUID      `json:"station_id,omitempty"`
	BankAccountID *uuid.UUID      `json:"bank_account_id,omitempty"`
	Description   string          `json:"description" binding:"max=500"`
	Reference     string          `json:"reference" binding:"max=100"`
}

// SetAllocationRequest records a manual allocation for one invoice
type SetAllocationRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceResponse is one outstanding invoice in the account view
type InvoiceResponse struct {
	ID               uuid.UUID       `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	DueDate          time.Time       `json:"due_date"`
	IsOverdue        bool            `json:"is_overdue"`
}

// SupplierAccountResponse is the payables view of a supplier
type SupplierAccountResponse struct {
	ID                  uuid.UUID         `json:"id"`
	SupplierName        string            `json:"supplier_name"`
	CurrentBalance      decimal.Decimal   `json:"current_balance"`
	CreditLimit         *decimal.Decimal  `json:"credit_limit,omitempty"`
	OutstandingTotal    decimal.Decimal   `json:"outstanding_total"`
	SnapshotAt          time.Time         `json:"snapshot_at"`
	OutstandingInvoices []InvoiceResponse `json:"outstanding_invoices"`
}

// AllocationResponse is one allocation line of a session
type AllocationResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentResultResponse is the confirmed submission outcome
type PaymentResultResponse struct {
	TransferNumber     string          `json:"transfer_number"`
	NewSupplierBalance decimal.Decimal `json:"new_supplier_balance"`
}

// SessionResponse is the full payment session view
type SessionResponse struct {
	ID                uuid.UUID               `json:"id"`
	SupplierAccountID uuid.UUID               `json:"supplier_account_id"`
	Account           SupplierAccountResponse `json:"account"`
	PaymentAmount     decimal.Decimal         `json:"payment_amount"`
	PaymentMethod     string                  `json:"payment_method,omitempty"`
	StationID         *uuid.UUID              `json:"station_id,omitempty"`
	BankAccountID     *uuid.UUID              `json:"bank_account_id,omitempty"`
	ApplicationMethod string                  `json:"application_method"`
	Allocations       []AllocationResponse    `json:"allocations"`
	TotalAllocated    decimal.Decimal         `json:"total_allocated"`
	CreditBalance     decimal.Decimal         `json:"credit_balance"`
	Description       string                  `json:"description,omitempty"`
	Reference         string                  `json:"reference,omitempty"`
	CurrentStep       string                  `json:"current_step"`
	Result            *PaymentResultResponse  `json:"result,omitempty"`
	FailureReason     string                  `json:"failure_reason,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// AutoAllocateResponse carries the refreshed session and the unallocated leftover
type AutoAllocateResponse struct {
	Session  SessionResponse `json:"session"`
	Leftover decimal.Decimal `json:"leftover"`
}

// SubmissionAllocationResponse is one line of a recorded submission
type SubmissionAllocationResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// SubmissionRecordResponse is one auditable submission attempt
type SubmissionRecordResponse struct {
	ID                uuid.UUID                      `json:"id"`
	SessionID         uuid.UUID                      `json:"session_id"`
	SupplierAccountID uuid.UUID                      `json:"supplier_account_id"`
	SupplierName      string                         `json:"supplier_name"`
	PaymentAmount     decimal.Decimal                `json:"payment_amount"`
	PaymentMethod     string                         `json:"payment_method"`
	ApplicationMethod string                         `json:"application_method"`
	Status            string                         `json:"status"`
	TransferNumber    string                         `json:"transfer_number,omitempty"`
	FailureReason     string                         `json:"failure_reason,omitempty"`
	SubmittedAt       time.Time                      `json:"submitted_at"`
	ResolvedAt        *time.Time                     `json:"resolved_at,omitempty"`
	Allocations       []SubmissionAllocationResponse `json:"allocations"`
}

// NewSupplierAccountResponse converts a domain account view
func NewSupplierAccountResponse(account *payables.SupplierAccount) SupplierAccountResponse {
	invoices := make([]InvoiceResponse, 0, len(account.OutstandingInvoices))
	for _, inv := range account.OutstandingInvoices {
		invoices = append(invoices, InvoiceResponse{
			ID:               inv.ID,
			InvoiceNumber:    inv.InvoiceNumber,
			OriginalAmount:   inv.OriginalAmount,
			RemainingBalance: inv.RemainingBalance,
			DueDate:          inv.DueDate,
			IsOverdue:        inv.IsOverdue,
		})
	}
	return SupplierAccountResponse{
		ID:                  account.ID,
		SupplierName:        account.SupplierName,
		CurrentBalance:      account.CurrentBalance,
		CreditLimit:         account.CreditLimit,
		OutstandingTotal:    account.OutstandingTotal(),
		SnapshotAt:          account.SnapshotAt,
		OutstandingInvoices: invoices,
	}
}

// NewSessionResponse converts a domain session. Allocation lines carry the
// invoice number from the snapshot for display.
func NewSessionResponse(session *payables.PaymentSession) SessionResponse {
	allocations := make([]AllocationResponse, 0, len(session.Allocations))
	for _, alloc := range session.Allocations {
		invoiceNumber := ""
		if inv, ok := session.Account.Invoice(alloc.InvoiceID); ok {
			invoiceNumber = inv.InvoiceNumber
		}
		allocations = append(allocations, AllocationResponse{
			InvoiceID:     alloc.InvoiceID,
			InvoiceNumber: invoiceNumber,
			Amount:        alloc.Amount,
		})
	}

	resp := SessionResponse{
		ID:                session.ID,
		SupplierAccountID: session.SupplierAccountID,
		Account:           NewSupplierAccountResponse(&session.Account),
		PaymentAmount:     session.PaymentAmount,
		PaymentMethod:     string(session.PaymentMethod),
		StationID:         session.MethodDetail.StationID,
		BankAccountID:     session.MethodDetail.BankAccountID,
		ApplicationMethod: string(session.ApplicationMethod),
		Allocations:       allocations,
		TotalAllocated:    session.TotalAllocated(),
		CreditBalance:     session.CreditBalance(),
		Description:       session.Description,
		Reference:         session.Reference,
		CurrentStep:       session.CurrentStep.String(),
		FailureReason:     session.FailureReason,
		CreatedAt:         session.CreatedAt,
		UpdatedAt:         session.UpdatedAt,
	}
	if session.Result != nil {
		resp.Result = &PaymentResultResponse{
			TransferNumber:     session.Result.TransferNumber,
			NewSupplierBalance: session.Result.NewSupplierBalance,
		}
	}
	return resp
}

// NewSubmissionRecordResponse converts a recorded submission attempt
func NewSubmissionRecordResponse(record *payables.SubmissionRecord) SubmissionRecordResponse {
	allocations := make([]SubmissionAllocationResponse, 0, len(record.Allocations))
	for _, line := range record.Allocations {
		allocations = append(allocations, SubmissionAllocationResponse{
			InvoiceID:     line.InvoiceID,
			InvoiceNumber: line.InvoiceNumber,
			Amount:        line.Amount,
		})
	}
	return SubmissionRecordResponse{
		ID:                record.ID,
		SessionID:         record.SessionID,
		SupplierAccountID: record.SupplierAccountID,
		SupplierName:      record.SupplierName,
		PaymentAmount:     record.PaymentAmount,
		PaymentMethod:     string(record.PaymentMethod),
		ApplicationMethod: string(record.ApplicationMethod),
		Status:            string(record.Status),
		TransferNumber:    record.TransferNumber,
		FailureReason:     record.FailureReason,
		SubmittedAt:       record.SubmittedAt,
		ResolvedAt:        record.ResolvedAt,
		Allocations:       allocations,
	}
}

// NewValidationDetails converts domain field errors to response details
func NewValidationDetails(fields []payables.FieldError) []ValidationDetail {
	details := make([]ValidationDetail, 0, len(fields))
	for _, f := range fields {
		details = append(details, ValidationDetail{
			Field:   f.Field,
			Code:    f.Code,
			Message: f.Message,
		})
	}
	return details
}
