package payables

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldCodes(errs []FieldError) []string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestValidateDetails(t *testing.T) {
	t.Run("passes with a valid cash payment", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("500"), PaymentMethodCash, cashDetail(), "", ""))
		assert.Empty(t, ValidateDetails(session, &session.Account))
	})

	t.Run("passes with a valid bank transfer", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("500"), PaymentMethodBankTransfer, bankDetail(), "", ""))
		assert.Empty(t, ValidateDetails(session, &session.Account))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(decimal.Zero, PaymentMethodCash, cashDetail(), "", ""))
		errs := ValidateDetails(session, &session.Account)
		assert.Contains(t, fieldCodes(errs), FieldCodeInvalidAmount)
	})

	t.Run("rejects an amount above the outstanding balance", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("800.01"), PaymentMethodCash, cashDetail(), "", ""))
		errs := ValidateDetails(session, &session.Account)
		assert.Contains(t, fieldCodes(errs), FieldCodeCreditExceeded)
	})

	t.Run("allows paying exactly the outstanding balance", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("800"), PaymentMethodCash, cashDetail(), "", ""))
		assert.Empty(t, ValidateDetails(session, &session.Account))
	})

	t.Run("rejects an unrecognized payment method", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("500"), PaymentMethod("MPESA"), MethodDetail{}, "", ""))
		errs := ValidateDetails(session, &session.Account)
		assert.Contains(t, fieldCodes(errs), FieldCodeInvalidMethod)
	})

	t.Run("bank transfer requires a bank account", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("500"), PaymentMethodBankTransfer, MethodDetail{}, "", ""))
		errs := ValidateDetails(session, &session.Account)
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCodeMissingDetail, errs[0].Code)
		assert.Equal(t, "method_detail.bank_account_id", errs[0].Field)
	})

	t.Run("cash requires a station", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("500"), PaymentMethodCash, MethodDetail{}, "", ""))
		errs := ValidateDetails(session, &session.Account)
		require.Len(t, errs, 1)
		assert.Equal(t, "method_detail.station_id", errs[0].Field)
	})

	t.Run("does not mutate the session", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("900"), PaymentMethodCash, MethodDetail{}, "", ""))
		before := session.PaymentAmount
		_ = ValidateDetails(session, &session.Account)
		_ = ValidateDetails(session, &session.Account)
		assert.True(t, before.Equal(session.PaymentAmount))
		assert.Equal(t, StepDetails, session.CurrentStep)
	})
}

func TestValidateForSubmission(t *testing.T) {
	t.Run("passes for an auto-allocated session", func(t *testing.T) {
		session := sessionAtReview(t)
		assert.Empty(t, ValidateForSubmission(session))
	})

	t.Run("rejects an empty allocation set", func(t *testing.T) {
		session := newTestSession(t)
		require.NoError(t, session.SetDetails(dec("500"), PaymentMethodCash, cashDetail(), "", ""))
		errs := ValidateForSubmission(session)
		assert.Contains(t, fieldCodes(errs), FieldCodeEmptyAllocations)
	})

	t.Run("rejects a sum above the payment amount without clamping", func(t *testing.T) {
		session := sessionAtReview(t)
		session.Allocations = []Allocation{
			{InvoiceID: session.Account.OutstandingInvoices[0].ID, Amount: dec("400")},
			{InvoiceID: session.Account.OutstandingInvoices[1].ID, Amount: dec("250")},
		}
		errs := ValidateForSubmission(session)
		assert.Contains(t, fieldCodes(errs), FieldCodeOverAllocated)
		assert.True(t, dec("650").Equal(session.TotalAllocated()), "validation must not clamp")
	})

	t.Run("rejects an allocation above the snapshot balance", func(t *testing.T) {
		session := sessionAtReview(t)
		session.Allocations = []Allocation{
			{InvoiceID: session.Account.OutstandingInvoices[1].ID, Amount: dec("301")},
		}
		errs := ValidateForSubmission(session)
		assert.Contains(t, fieldCodes(errs), FieldCodeAllocationBounds)
	})

	t.Run("rejects an allocation for an invoice outside the snapshot", func(t *testing.T) {
		session := sessionAtReview(t)
		session.Allocations = append(session.Allocations, Allocation{
			InvoiceID: newTestSession(t).Account.OutstandingInvoices[0].ID,
			Amount:    dec("10"),
		})
		errs := ValidateForSubmission(session)
		assert.Contains(t, fieldCodes(errs), FieldCodeUnknownInvoice)
	})

	t.Run("re-checks the method detail", func(t *testing.T) {
		session := sessionAtReview(t)
		session.MethodDetail = MethodDetail{}
		errs := ValidateForSubmission(session)
		assert.Contains(t, fieldCodes(errs), FieldCodeMissingDetail)
	})
}

func TestValidateAgainstFresh(t *testing.T) {
	t.Run("passes when fresh balances still cover the allocations", func(t *testing.T) {
		session := sessionAtReview(t)
		fresh := session.Account
		assert.Empty(t, ValidateAgainstFresh(session, &fresh))
	})

	t.Run("flags a shrunken remaining balance", func(t *testing.T) {
		session := sessionAtReview(t)
		fresh := testAccount()
		fresh.ID = session.SupplierAccountID
		fresh.OutstandingInvoices = make([]Invoice, len(session.Account.OutstandingInvoices))
		copy(fresh.OutstandingInvoices, session.Account.OutstandingInvoices)
		fresh.OutstandingInvoices[0].RemainingBalance = dec("100") // was 500, allocated 500

		errs := ValidateAgainstFresh(session, &fresh)
		require.NotEmpty(t, errs)
		assert.Equal(t, FieldCodeStaleBalance, errs[0].Code)
	})

	t.Run("flags an invoice settled since the snapshot", func(t *testing.T) {
		session := sessionAtReview(t)
		fresh := session.Account
		fresh.OutstandingInvoices = fresh.OutstandingInvoices[1:] // first invoice settled and gone

		errs := ValidateAgainstFresh(session, &fresh)
		require.NotEmpty(t, errs)
		assert.Equal(t, FieldCodeStaleBalance, errs[0].Code)
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "payment_amount", Code: FieldCodeInvalidAmount, Message: "Payment amount must be greater than zero"},
	})
	assert.Contains(t, err.Error(), "payment_amount")
	assert.Contains(t, err.Error(), "greater than zero")
}
