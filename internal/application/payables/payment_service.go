package payables

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
)

// submitKeyPrefix namespaces the idempotency key for session submissions
const submitKeyPrefix = "payables:submit:"

// defaultSubmitTTL bounds how long a submission claim can be held. It must
// outlive the slowest treasury call so a crashed instance eventually frees
// the key.
const defaultSubmitTTL = 2 * time.Minute

// PaymentSessionService coordinates payment sessions from open to
// submission. Sessions live in memory for their whole lifetime; only the
// submission record is persisted.
type PaymentSessionService struct {
	ledger    payables.LedgerReader
	processor payables.PaymentProcessor
	recorder  payables.SubmissionRecorder
	idem      payables.IdempotencyStore
	logger    *zap.Logger
	submitTTL time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*payables.PaymentSession
}

// NewPaymentSessionService creates a new PaymentSessionService
func NewPaymentSessionService(
	ledger payables.LedgerReader,
	processor payables.PaymentProcessor,
	recorder payables.SubmissionRecorder,
	idem payables.IdempotencyStore,
	logger *zap.Logger,
) *PaymentSessionService {
	return &PaymentSessionService{
		ledger:    ledger,
		processor: processor,
		recorder:  recorder,
		idem:      idem,
		logger:    logger.Named("payment-session"),
		submitTTL: defaultSubmitTTL,
		sessions:  make(map[uuid.UUID]*payables.PaymentSession),
	}
}

// WithSubmitTTL overrides the default submission claim TTL
func (s *PaymentSessionService) WithSubmitTTL(ttl time.Duration) *PaymentSessionService {
	if ttl > 0 {
		s.submitTTL = ttl
	}
	return s
}

// UpdateDetailsInput carries the editable payment detail fields
type UpdateDetailsInput struct {
	PaymentAmount decimal.Decimal
	PaymentMethod payables.PaymentMethod
	MethodDetail  payables.MethodDetail
	Description   string
	Reference     string
}

// SupplierAccount loads the current payables view for a supplier
func (s *PaymentSessionService) SupplierAccount(ctx context.Context, supplierAccountID uuid.UUID) (*payables.SupplierAccount, error) {
	account, err := s.ledger.LoadOutstanding(ctx, supplierAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier account: %w", err)
	}
	return account, nil
}

// Open starts a payment session against a fresh supplier snapshot
func (s *PaymentSessionService) Open(ctx context.Context, supplierAccountID uuid.UUID) (*payables.PaymentSession, error) {
	account, err := s.ledger.LoadOutstanding(ctx, supplierAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier account: %w", err)
	}

	session, err := payables.NewPaymentSession(*account)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("payment session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("supplier_account_id", supplierAccountID.String()),
		zap.Int("outstanding_invoices", len(account.OutstandingInvoices)))
	return session, nil
}

// Get returns a session by ID
func (s *PaymentSessionService) Get(sessionID uuid.UUID) (*payables.PaymentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	return session, nil
}

// UpdateDetails applies edited payment details to a session in DETAILS
func (s *PaymentSessionService) UpdateDetails(sessionID uuid.UUID, input UpdateDetailsInput) (*payables.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	if err := session.SetDetails(input.PaymentAmount, input.PaymentMethod, input.MethodDetail, input.Description, input.Reference); err != nil {
		return nil, err
	}
	return session, nil
}

// AutoAllocate replaces the session's allocations with the oldest-first
// distribution of the entered amount and returns the unallocated leftover.
func (s *PaymentSessionService) AutoAllocate(sessionID uuid.UUID) (*payables.PaymentSession, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, decimal.Zero, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	leftover, err := session.ApplyOldestFirst()
	if err != nil {
		return nil, decimal.Zero, err
	}
	return session, leftover, nil
}

// SetAllocation records a manual allocation for one invoice. The stored
// amount may be clamped below the requested one; callers surface the
// returned allocation so the user sees the effective value.
func (s *PaymentSessionService) SetAllocation(sessionID, invoiceID uuid.UUID, amount decimal.Decimal) (*payables.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	return session.AddOrUpdateAllocation(invoiceID, amount)
}

// RemoveAllocation drops the allocation for one invoice
func (s *PaymentSessionService) RemoveAllocation(sessionID, invoiceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	if !session.CurrentStep.CanEdit() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change allocations in %s step", session.CurrentStep))
	}
	session.RemoveAllocation(invoiceID)
	return nil
}

// Review moves the session from DETAILS to REVIEW. A validation failure
// leaves the session in DETAILS and is returned as a ValidationError.
func (s *PaymentSessionService) Review(sessionID uuid.UUID) (*payables.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	if errs := session.ProceedToReview(); len(errs) > 0 {
		return nil, payables.NewValidationError(errs)
	}
	return session, nil
}

// Back returns the session from REVIEW to DETAILS, keeping entered data
func (s *PaymentSessionService) Back(sessionID uuid.UUID) (*payables.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	if err := session.Back(); err != nil {
		return nil, err
	}
	return session, nil
}

// Retry acknowledges a failed submission and returns the session to REVIEW
func (s *PaymentSessionService) Retry(sessionID uuid.UUID) (*payables.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	if err := session.Retry(); err != nil {
		return nil, err
	}
	return session, nil
}

// Cancel discards the session. SUBMITTING sessions cannot be cancelled.
func (s *PaymentSessionService) Cancel(sessionID uuid.UUID) (*payables.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment session not found")
	}
	if err := session.Cancel(); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit executes the payment. The sequence is fixed: claim the session's
// submission key, gate REVIEW -> SUBMITTING, re-validate against a fresh
// ledger fetch, persist the audit record, then call the treasury. Any
// failure after the SUBMITTING transition lands the session in FAILED with
// the reason attached and no balance mutated locally.
func (s *PaymentSessionService) Submit(ctx context.Context, sessionID uuid.UUID) (*payables.PaymentSession, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	key := submitKeyPrefix + sessionID.String()
	claimed, err := s.idem.Acquire(ctx, key, s.submitTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim submission: %w", err)
	}
	if !claimed {
		return nil, shared.ErrSubmitInFlight
	}
	defer func() {
		if releaseErr := s.idem.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
			s.logger.Warn("failed to release submission claim",
				zap.String("session_id", sessionID.String()), zap.Error(releaseErr))
		}
	}()

	s.mu.Lock()
	errs := session.BeginSubmission()
	s.mu.Unlock()
	if len(errs) > 0 {
		return nil, payables.NewValidationError(errs)
	}

	// From here the session is in SUBMITTING and edits are blocked, so the
	// external calls run without holding the service lock.
	result, submitErr := s.execute(ctx, session)

	s.mu.Lock()
	defer s.mu.Unlock()
	if submitErr != nil {
		if failErr := session.FailSubmission(submitErr.Error()); failErr != nil {
			s.logger.Error("failed to mark session as failed",
				zap.String("session_id", sessionID.String()), zap.Error(failErr))
		}
		s.logger.Warn("payment submission failed",
			zap.String("session_id", sessionID.String()),
			zap.String("supplier_account_id", session.SupplierAccountID.String()),
			zap.Error(submitErr))
		return session, submitErr
	}

	if err := session.CompleteSubmission(*result); err != nil {
		return nil, err
	}
	s.logger.Info("payment submitted",
		zap.String("session_id", sessionID.String()),
		zap.String("supplier_account_id", session.SupplierAccountID.String()),
		zap.String("transfer_number", result.TransferNumber),
		zap.String("amount", session.PaymentAmount.StringFixed(2)))
	return session, nil
}

// execute runs the external half of a submission: stale check, audit record,
// treasury call. It never mutates the session.
func (s *PaymentSessionService) execute(ctx context.Context, session *payables.PaymentSession) (*payables.PaymentResult, error) {
	fresh, err := s.ledger.LoadOutstanding(ctx, session.SupplierAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh supplier account: %w", err)
	}
	if staleErrs := payables.ValidateAgainstFresh(session, fresh); len(staleErrs) > 0 {
		return nil, payables.NewValidationError(staleErrs)
	}

	record, err := payables.NewSubmissionRecord(session)
	if err != nil {
		return nil, err
	}
	// The audit record must exist before any money moves.
	if err := s.recorder.Record(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist submission record: %w", err)
	}

	req := session.BuildRequest()
	var result *payables.PaymentResult
	switch session.PaymentMethod {
	case payables.PaymentMethodCash:
		result, err = s.processor.PayCash(ctx, req)
	case payables.PaymentMethodBankTransfer:
		result, err = s.processor.PayBankTransfer(ctx, req)
	default:
		err = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}

	if err != nil {
		if markErr := s.recorder.MarkFailed(context.WithoutCancel(ctx), record.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark submission record as failed",
				zap.String("record_id", record.ID.String()), zap.Error(markErr))
		}
		return nil, fmt.Errorf("treasury rejected the payment: %w", err)
	}

	if markErr := s.recorder.MarkSucceeded(context.WithoutCancel(ctx), record.ID, result.TransferNumber); markErr != nil {
		// The payment already applied; the record is reconciled out of band.
		s.logger.Error("failed to mark submission record as succeeded",
			zap.String("record_id", record.ID.String()),
			zap.String("transfer_number", result.TransferNumber),
			zap.Error(markErr))
	}
	return result, nil
}
