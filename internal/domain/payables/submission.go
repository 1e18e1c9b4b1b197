package payables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
)

// SubmissionStatus represents the outcome of one submission attempt
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "PENDING"   // recorded, money movement not yet confirmed
	SubmissionStatusSucceeded SubmissionStatus = "SUCCEEDED" // processor confirmed the transfer
	SubmissionStatusFailed    SubmissionStatus = "FAILED"    // processor rejected or the call failed
)

// IsValid checks if the status is a recognized SubmissionStatus
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusSucceeded, SubmissionStatusFailed:
		return true
	}
	return false
}

// SubmissionAllocation is one allocation line of a recorded submission
type SubmissionAllocation struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SubmissionRecordID uuid.UUID       `gorm:"type:uuid;not null;index" json:"submission_record_id"`
	InvoiceID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	InvoiceNumber      string          `gorm:"type:varchar(50);not null" json:"invoice_number"` // denormalized for audit display
	Amount             decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

// TableName returns the table name for GORM
func (SubmissionAllocation) TableName() string {
	return "submission_allocations"
}

// SubmissionRecord is the auditable, re-verifiable record of one submission
// attempt. It is persisted with PENDING status before the money movement
// call is made and reconciled with the outcome afterwards.
type SubmissionRecord struct {
	shared.BaseEntity
	SessionID         uuid.UUID              `gorm:"type:uuid;not null;index" json:"session_id"`
	SupplierAccountID uuid.UUID              `gorm:"type:uuid;not null;index" json:"supplier_account_id"`
	SupplierName      string                 `gorm:"type:varchar(200);not null" json:"supplier_name"`
	PaymentAmount     decimal.Decimal        `gorm:"type:decimal(18,4);not null" json:"payment_amount"`
	PaymentMethod     PaymentMethod          `gorm:"type:varchar(30);not null" json:"payment_method"`
	ApplicationMethod ApplicationMethod      `gorm:"type:varchar(30);not null" json:"application_method"`
	StationID         *uuid.UUID             `gorm:"type:uuid" json:"station_id,omitempty"`
	BankAccountID     *uuid.UUID             `gorm:"type:uuid" json:"bank_account_id,omitempty"`
	Description       string                 `gorm:"type:varchar(500)" json:"description"`
	Reference         string                 `gorm:"type:varchar(100)" json:"reference"`
	Status            SubmissionStatus       `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TransferNumber    string                 `gorm:"type:varchar(100)" json:"transfer_number"`
	FailureReason     string                 `gorm:"type:varchar(500)" json:"failure_reason"`
	SubmittedAt       time.Time              `gorm:"not null" json:"submitted_at"`
	ResolvedAt        *time.Time             `json:"resolved_at,omitempty"`
	Allocations       []SubmissionAllocation `gorm:"foreignKey:SubmissionRecordID;references:ID" json:"allocations"`
}

// TableName returns the table name for GORM
func (SubmissionRecord) TableName() string {
	return "payment_submissions"
}

// NewSubmissionRecord captures the session's submission payload for audit
func NewSubmissionRecord(session *PaymentSession) (*SubmissionRecord, error) {
	if session == nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session cannot be nil")
	}
	if len(session.Allocations) == 0 {
		return nil, shared.NewDomainError("EMPTY_ALLOCATIONS", "Cannot record a submission without allocations")
	}

	record := &SubmissionRecord{
		BaseEntity:        shared.NewBaseEntity(),
		SessionID:         session.ID,
		SupplierAccountID: session.SupplierAccountID,
		SupplierName:      session.Account.SupplierName,
		PaymentAmount:     session.PaymentAmount,
		PaymentMethod:     session.PaymentMethod,
		ApplicationMethod: session.ApplicationMethod,
		StationID:         session.MethodDetail.StationID,
		BankAccountID:     session.MethodDetail.BankAccountID,
		Description:       session.Description,
		Reference:         session.Reference,
		Status:            SubmissionStatusPending,
		SubmittedAt:       time.Now(),
		Allocations:       make([]SubmissionAllocation, 0, len(session.Allocations)),
	}

	for _, alloc := range session.Allocations {
		invoiceNumber := ""
		if inv, ok := session.Account.Invoice(alloc.InvoiceID); ok {
			invoiceNumber = inv.InvoiceNumber
		}
		record.Allocations = append(record.Allocations, SubmissionAllocation{
			ID:                 uuid.New(),
			SubmissionRecordID: record.ID,
			InvoiceID:          alloc.InvoiceID,
			InvoiceNumber:      invoiceNumber,
			Amount:             alloc.Amount,
		})
	}

	return record, nil
}

// Resolve records the submission outcome
func (r *SubmissionRecord) Resolve(status SubmissionStatus, transferNumber, failureReason string) error {
	if r.Status != SubmissionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Submission record is already resolved")
	}
	if status != SubmissionStatusSucceeded && status != SubmissionStatusFailed {
		return shared.NewDomainError("INVALID_STATUS", "Resolution must be SUCCEEDED or FAILED")
	}

	now := time.Now()
	r.Status = status
	r.TransferNumber = transferNumber
	r.FailureReason = failureReason
	r.ResolvedAt = &now
	r.Touch()
	return nil
}

// AllocatedTotal sums the recorded allocation amounts
func (r *SubmissionRecord) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}
