package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/config"
)

// Client implements payables.LedgerReader against the accounting service's
// HTTP API. The engine only ever reads through this client; invoice balances
// and supplier totals are owned upstream.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new ledger client
func NewClient(cfg config.ClientConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// supplierAccountPayload is the wire shape of the ledger's account view
type supplierAccountPayload struct {
	SupplierAccountID uuid.UUID        `json:"supplier_account_id"`
	SupplierName      string           `json:"supplier_name"`
	CurrentBalance    decimal.Decimal  `json:"current_balance"`
	CreditLimit       *decimal.Decimal `json:"credit_limit,omitempty"`
	Invoices          []invoicePayload `json:"outstanding_invoices"`
}

type invoicePayload struct {
	ID               uuid.UUID       `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	DueDate          time.Time       `json:"due_date"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoadOutstanding fetches the supplier's outstanding payables and stamps the
// view with the fetch time. Overdue flags are computed here so the rest of
// the engine never consults the clock.
func (c *Client) LoadOutstanding(ctx context.Context, supplierAccountID uuid.UUID) (*payables.SupplierAccount, error) {
	url := fmt.Sprintf("%s/api/v1/suppliers/%s/payables", c.baseURL, supplierAccountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.NewDomainError("NOT_FOUND", "Supplier account not found in the ledger")
	}
	if resp.StatusCode != http.StatusOK {
		var errPayload errorPayload
		if json.Unmarshal(body, &errPayload) == nil && errPayload.Message != "" {
			return nil, fmt.Errorf("ledger returned %d: %s", resp.StatusCode, errPayload.Message)
		}
		return nil, fmt.Errorf("ledger returned unexpected status %d", resp.StatusCode)
	}

	var payload supplierAccountPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode ledger response: %w", err)
	}

	now := time.Now()
	account := &payables.SupplierAccount{
		ID:                  payload.SupplierAccountID,
		SupplierName:        payload.SupplierName,
		CurrentBalance:      payload.CurrentBalance,
		CreditLimit:         payload.CreditLimit,
		OutstandingInvoices: make([]payables.Invoice, 0, len(payload.Invoices)),
		SnapshotAt:          now,
	}
	for _, inv := range payload.Invoices {
		invoice := payables.Invoice{
			ID:               inv.ID,
			InvoiceNumber:    inv.InvoiceNumber,
			OriginalAmount:   inv.OriginalAmount,
			RemainingBalance: inv.RemainingBalance,
			DueDate:          inv.DueDate,
			IsOverdue:        inv.DueDate.Before(now),
		}
		if err := invoice.Validate(); err != nil {
			return nil, fmt.Errorf("ledger returned invalid invoice %s: %w", inv.InvoiceNumber, err)
		}
		account.OutstandingInvoices = append(account.OutstandingInvoices, invoice)
	}
	account.OutstandingInvoices = payables.SortInvoicesByDueDate(account.OutstandingInvoices)

	return account, nil
}
