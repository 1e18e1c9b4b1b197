package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/config"
)

const (
	cashPaymentPath = "/api/v1/payments/cash"
	bankPaymentPath = "/api/v1/payments/bank-transfer"
)

// Client implements payables.PaymentProcessor against the treasury service.
// The treasury owns atomicity of the transfer and the invoice balance
// updates; a call either fully applies or returns an error.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new treasury client
func NewClient(cfg config.ClientConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// PayCash executes a cash payment from a station till
func (c *Client) PayCash(ctx context.Context, req payables.PaymentRequest) (*payables.PaymentResult, error) {
	return c.post(ctx, cashPaymentPath, req)
}

// PayBankTransfer executes a bank transfer payment
func (c *Client) PayBankTransfer(ctx context.Context, req payables.PaymentRequest) (*payables.PaymentResult, error) {
	return c.post(ctx, bankPaymentPath, req)
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, payload payables.PaymentRequest) (*payables.PaymentResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build treasury request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("treasury request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read treasury response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errPayload errorPayload
		if json.Unmarshal(respBody, &errPayload) == nil && errPayload.Code != "" {
			return nil, shared.NewDomainError(errPayload.Code, errPayload.Message)
		}
		return nil, fmt.Errorf("treasury returned unexpected status %d", resp.StatusCode)
	}

	var result payables.PaymentResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode treasury response: %w", err)
	}
	if result.TransferNumber == "" {
		return nil, fmt.Errorf("treasury response is missing a transfer number")
	}
	return &result, nil
}
