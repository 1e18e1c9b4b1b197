package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
)

func setupSubmissionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&payables.SubmissionRecord{}, &payables.SubmissionAllocation{})
	require.NoError(t, err)
	return db
}

func buildSubmissionRecord(t *testing.T) *payables.SubmissionRecord {
	t.Helper()
	station := uuid.New()
	account := payables.SupplierAccount{
		ID:             uuid.New(),
		SupplierName:   "Mwangi Petroleum Distributors",
		CurrentBalance: decimal.NewFromInt(800),
		OutstandingInvoices: []payables.Invoice{
			{
				ID:               uuid.New(),
				InvoiceNumber:    "INV-001",
				OriginalAmount:   decimal.NewFromInt(500),
				RemainingBalance: decimal.NewFromInt(500),
				DueDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		SnapshotAt: time.Now(),
	}
	session, err := payables.NewPaymentSession(account)
	require.NoError(t, err)
	require.NoError(t, session.SetDetails(decimal.NewFromInt(500), payables.PaymentMethodCash,
		payables.MethodDetail{StationID: &station}, "January settlement", "PV-100"))
	_, err = session.ApplyOldestFirst()
	require.NoError(t, err)

	record, err := payables.NewSubmissionRecord(session)
	require.NoError(t, err)
	return record
}

func TestSubmissionRepository_RoundTrip(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewGormSubmissionRepository(db)
	ctx := context.Background()

	record := buildSubmissionRecord(t)
	require.NoError(t, repo.Record(ctx, record))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, payables.SubmissionStatusPending, found.Status)
	assert.Equal(t, "Mwangi Petroleum Distributors", found.SupplierName)
	require.Len(t, found.Allocations, 1)
	assert.Equal(t, "INV-001", found.Allocations[0].InvoiceNumber)
	assert.True(t, found.PaymentAmount.Equal(decimal.NewFromInt(500)))
}

func TestSubmissionRepository_ResolveOnce(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewGormSubmissionRepository(db)
	ctx := context.Background()

	record := buildSubmissionRecord(t)
	require.NoError(t, repo.Record(ctx, record))

	require.NoError(t, repo.MarkSucceeded(ctx, record.ID, "TRF-2024-0042"))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, payables.SubmissionStatusSucceeded, found.Status)
	assert.Equal(t, "TRF-2024-0042", found.TransferNumber)
	assert.NotNil(t, found.ResolvedAt)

	// A resolved record cannot be resolved again.
	err = repo.MarkFailed(ctx, record.ID, "late failure")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestSubmissionRepository_FindBySupplierOrdering(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewGormSubmissionRepository(db)
	ctx := context.Background()

	first := buildSubmissionRecord(t)
	first.SubmittedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Record(ctx, first))

	second := buildSubmissionRecord(t)
	second.SupplierAccountID = first.SupplierAccountID
	require.NoError(t, repo.Record(ctx, second))

	records, err := repo.FindBySupplier(ctx, first.SupplierAccountID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)

	limited, err := repo.FindBySupplier(ctx, first.SupplierAccountID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSubmissionRepository_FindPendingOlderThan(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewGormSubmissionRepository(db)
	ctx := context.Background()

	stuck := buildSubmissionRecord(t)
	stuck.SubmittedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Record(ctx, stuck))

	recent := buildSubmissionRecord(t)
	require.NoError(t, repo.Record(ctx, recent))

	pending, err := repo.FindPendingOlderThan(ctx, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, stuck.ID, pending[0].ID)
}
