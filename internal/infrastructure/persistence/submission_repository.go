package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
)

// GormSubmissionRepository implements payables.SubmissionRecorder using GORM.
// It also serves the audit queries over recorded submissions.
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Record persists a pending submission record with its allocation lines.
// The record and its lines go in one transaction so a partial audit trail
// can never exist.
func (r *GormSubmissionRepository) Record(ctx context.Context, record *payables.SubmissionRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
}

// MarkSucceeded resolves a pending record with the processor's transfer number
func (r *GormSubmissionRepository) MarkSucceeded(ctx context.Context, id uuid.UUID, transferNumber string) error {
	return r.resolve(ctx, id, payables.SubmissionStatusSucceeded, map[string]any{
		"status":          payables.SubmissionStatusSucceeded,
		"transfer_number": transferNumber,
	})
}

// MarkFailed resolves a pending record with the failure reason
func (r *GormSubmissionRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.resolve(ctx, id, payables.SubmissionStatusFailed, map[string]any{
		"status":         payables.SubmissionStatusFailed,
		"failure_reason": reason,
	})
}

// resolve flips a PENDING record to a terminal status. The status guard in
// the WHERE clause makes resolution idempotent-safe under concurrent calls.
func (r *GormSubmissionRepository) resolve(ctx context.Context, id uuid.UUID, status payables.SubmissionStatus, updates map[string]any) error {
	now := time.Now()
	updates["resolved_at"] = &now
	updates["updated_at"] = now

	result := r.db.WithContext(ctx).
		Model(&payables.SubmissionRecord{}).
		Where("id = ? AND status = ?", id, payables.SubmissionStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("INVALID_STATE", "Submission record is missing or already resolved")
	}
	return nil
}

// FindByID finds a submission record with its allocations
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payables.SubmissionRecord, error) {
	var record payables.SubmissionRecord
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindBySession finds all submission attempts for a payment session,
// newest first
func (r *GormSubmissionRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]payables.SubmissionRecord, error) {
	var records []payables.SubmissionRecord
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("session_id = ?", sessionID).
		Order("submitted_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindBySupplier finds submission records for a supplier account, newest first
func (r *GormSubmissionRepository) FindBySupplier(ctx context.Context, supplierAccountID uuid.UUID, limit int) ([]payables.SubmissionRecord, error) {
	query := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("supplier_account_id = ?", supplierAccountID).
		Order("submitted_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []payables.SubmissionRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindPendingOlderThan finds unresolved records submitted before the cutoff.
// These indicate a crash between the treasury call and resolution and need
// manual reconciliation.
func (r *GormSubmissionRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]payables.SubmissionRecord, error) {
	var records []payables.SubmissionRecord
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("status = ? AND submitted_at < ?", payables.SubmissionStatusPending, cutoff).
		Order("submitted_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
