package payables

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest is the immutable payload handed to the money-movement
// collaborator. It is assembled from a session by BuildRequest and never
// mutated afterwards.
type PaymentRequest struct {
	SupplierAccountID uuid.UUID         `json:"supplier_account_id"`
	PaymentAmount     decimal.Decimal   `json:"payment_amount"`
	PaymentMethod     PaymentMethod     `json:"payment_method"`
	ApplicationMethod ApplicationMethod `json:"application_method"`
	Allocations       []Allocation      `json:"allocations"`
	Description       string            `json:"description"`
	Reference         string            `json:"reference"`
	MethodDetail      MethodDetail      `json:"method_detail"`
}

// PaymentResult is the outcome of a confirmed submission, produced by the
// external processor. The engine consumes it but never computes it; updated
// balances always come from the ledger of record.
type PaymentResult struct {
	TransferNumber     string          `json:"transfer_number"`
	Allocations        []Allocation    `json:"allocations"`
	NewSupplierBalance decimal.Decimal `json:"new_supplier_balance"`
}

// LedgerReader loads a point-in-time view of a supplier's payables from the
// ledger of record. The engine never writes through this interface.
type LedgerReader interface {
	LoadOutstanding(ctx context.Context, supplierAccountID uuid.UUID) (*SupplierAccount, error)
}

// PaymentProcessor executes the money movement. Implementations own
// atomicity; from the engine's perspective a call either fully applies or
// fully fails.
type PaymentProcessor interface {
	PayCash(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
	PayBankTransfer(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// SubmissionRecorder persists the auditable allocation record. A record is
// written before the money movement call and its outcome reconciled after,
// so every attempt is re-verifiable even when the processor call is lost.
type SubmissionRecorder interface {
	Record(ctx context.Context, record *SubmissionRecord) error
	MarkSucceeded(ctx context.Context, id uuid.UUID, transferNumber string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// IdempotencyStore guards against duplicate in-flight submissions for the
// same session across process instances.
type IdempotencyStore interface {
	// Acquire returns true if the key was newly claimed, false if a holder exists
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
