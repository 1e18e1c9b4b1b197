package treasury

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.ClientConfig{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	})
}

func testRequest() payables.PaymentRequest {
	station := uuid.New()
	return payables.PaymentRequest{
		SupplierAccountID: uuid.New(),
		PaymentAmount:     decimal.NewFromInt(600),
		PaymentMethod:     payables.PaymentMethodCash,
		ApplicationMethod: payables.ApplicationMethodOldestFirst,
		Allocations: []payables.Allocation{
			{InvoiceID: uuid.New(), Amount: decimal.NewFromInt(600)},
		},
		MethodDetail: payables.MethodDetail{StationID: &station},
	}
}

func TestPayCash(t *testing.T) {
	t.Run("posts the request and decodes the result", func(t *testing.T) {
		req := testRequest()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, cashPaymentPath, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var received payables.PaymentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			assert.Equal(t, req.SupplierAccountID, received.SupplierAccountID)
			assert.True(t, req.PaymentAmount.Equal(received.PaymentAmount))

			w.Write([]byte(`{
				"transfer_number": "TRF-2024-0042",
				"allocations": [],
				"new_supplier_balance": "200.00"
			}`))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).PayCash(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "TRF-2024-0042", result.TransferNumber)
		assert.Equal(t, "200.00", result.NewSupplierBalance.StringFixed(2))
	})

	t.Run("maps a structured rejection to a domain error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"code": "INSUFFICIENT_FUNDS", "message": "Station till cannot cover the payment"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).PayCash(context.Background(), testRequest())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_FUNDS", domainErr.Code)
	})

	t.Run("rejects a result without a transfer number", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"allocations": []}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).PayCash(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transfer number")
	})

	t.Run("fails on an unexpected status without a body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).PayCash(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

func TestPayBankTransfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, bankPaymentPath, r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"transfer_number": "TRF-2024-0099", "allocations": [], "new_supplier_balance": "0"}`))
	}))
	defer server.Close()

	bank := uuid.New()
	req := testRequest()
	req.PaymentMethod = payables.PaymentMethodBankTransfer
	req.MethodDetail = payables.MethodDetail{BankAccountID: &bank}

	result, err := newTestClient(server.URL).PayBankTransfer(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "TRF-2024-0099", result.TransferNumber)
}
