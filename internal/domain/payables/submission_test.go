package payables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmissionRecord(t *testing.T) {
	t.Run("captures the session payload with invoice numbers", func(t *testing.T) {
		session := sessionAtReview(t)
		record, err := NewSubmissionRecord(session)
		require.NoError(t, err)

		assert.Equal(t, session.ID, record.SessionID)
		assert.Equal(t, session.SupplierAccountID, record.SupplierAccountID)
		assert.Equal(t, "Mwangi Petroleum Distributors", record.SupplierName)
		assert.True(t, session.PaymentAmount.Equal(record.PaymentAmount))
		assert.Equal(t, session.PaymentMethod, record.PaymentMethod)
		assert.Equal(t, SubmissionStatusPending, record.Status)
		assert.NotNil(t, record.StationID)

		require.Len(t, record.Allocations, len(session.Allocations))
		for i, line := range record.Allocations {
			assert.Equal(t, record.ID, line.SubmissionRecordID)
			assert.Equal(t, session.Allocations[i].InvoiceID, line.InvoiceID)
			assert.True(t, session.Allocations[i].Amount.Equal(line.Amount))
			assert.NotEmpty(t, line.InvoiceNumber)
		}
		assert.True(t, session.TotalAllocated().Equal(record.AllocatedTotal()))
	})

	t.Run("refuses a session without allocations", func(t *testing.T) {
		session := newTestSession(t)
		_, err := NewSubmissionRecord(session)
		require.Error(t, err)
	})

	t.Run("refuses a nil session", func(t *testing.T) {
		_, err := NewSubmissionRecord(nil)
		require.Error(t, err)
	})
}

func TestSubmissionRecordResolve(t *testing.T) {
	t.Run("resolves to SUCCEEDED with a transfer number", func(t *testing.T) {
		record, err := NewSubmissionRecord(sessionAtReview(t))
		require.NoError(t, err)

		require.NoError(t, record.Resolve(SubmissionStatusSucceeded, "TRF-2024-0042", ""))
		assert.Equal(t, SubmissionStatusSucceeded, record.Status)
		assert.Equal(t, "TRF-2024-0042", record.TransferNumber)
		require.NotNil(t, record.ResolvedAt)
	})

	t.Run("resolves to FAILED with a reason", func(t *testing.T) {
		record, err := NewSubmissionRecord(sessionAtReview(t))
		require.NoError(t, err)

		require.NoError(t, record.Resolve(SubmissionStatusFailed, "", "treasury unreachable"))
		assert.Equal(t, SubmissionStatusFailed, record.Status)
		assert.Equal(t, "treasury unreachable", record.FailureReason)
	})

	t.Run("refuses double resolution", func(t *testing.T) {
		record, err := NewSubmissionRecord(sessionAtReview(t))
		require.NoError(t, err)

		require.NoError(t, record.Resolve(SubmissionStatusSucceeded, "TRF-1", ""))
		require.Error(t, record.Resolve(SubmissionStatusFailed, "", "late failure"))
	})

	t.Run("refuses resolving back to PENDING", func(t *testing.T) {
		record, err := NewSubmissionRecord(sessionAtReview(t))
		require.NoError(t, err)
		require.Error(t, record.Resolve(SubmissionStatusPending, "", ""))
	})
}
