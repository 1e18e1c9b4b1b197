package payables

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
)

// Invoice is one outstanding obligation owed to a supplier.
// The engine holds a read-only copy for the duration of one session;
// the external ledger owns the record and settles it.
type Invoice struct {
	ID               uuid.UUID       `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	DueDate          time.Time       `json:"due_date"`
	IsOverdue        bool            `json:"is_overdue"`
}

// Validate checks the invariant 0 <= remainingBalance <= originalAmount
func (inv Invoice) Validate() error {
	if inv.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if inv.OriginalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_INVOICE", "Original amount cannot be negative")
	}
	if inv.RemainingBalance.IsNegative() {
		return shared.NewDomainError("INVALID_INVOICE", "Remaining balance cannot be negative")
	}
	if inv.RemainingBalance.GreaterThan(inv.OriginalAmount) {
		return shared.NewDomainError("INVALID_INVOICE", "Remaining balance cannot exceed original amount")
	}
	return nil
}

// SortInvoicesByDueDate returns a copy of invoices in ascending due date order.
// Ties are broken by ID so repeated calls over the same set are deterministic.
func SortInvoicesByDueDate(invoices []Invoice) []Invoice {
	sorted := make([]Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DueDate.Equal(sorted[j].DueDate) {
			return sorted[i].ID.String() < sorted[j].ID.String()
		}
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})
	return sorted
}

// SupplierAccount is a point-in-time view of one supplier's payables.
// It is captured when a payment session opens and never refreshed in place;
// the submission path re-fetches a fresh copy before moving money.
type SupplierAccount struct {
	ID                  uuid.UUID        `json:"id"`
	SupplierName        string           `json:"supplier_name"`
	CurrentBalance      decimal.Decimal  `json:"current_balance"`
	CreditLimit         *decimal.Decimal `json:"credit_limit,omitempty"`
	OutstandingInvoices []Invoice        `json:"outstanding_invoices"`
	SnapshotAt          time.Time        `json:"snapshot_at"`
}

// AvailableCredit returns creditLimit - currentBalance, or nil when no limit is set
func (a *SupplierAccount) AvailableCredit() *decimal.Decimal {
	if a.CreditLimit == nil {
		return nil
	}
	available := a.CreditLimit.Sub(a.CurrentBalance)
	return &available
}

// Invoice looks up an outstanding invoice in the snapshot by ID
func (a *SupplierAccount) Invoice(id uuid.UUID) (Invoice, bool) {
	for _, inv := range a.OutstandingInvoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return Invoice{}, false
}

// OutstandingTotal sums the remaining balances of all outstanding invoices
func (a *SupplierAccount) OutstandingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range a.OutstandingInvoices {
		total = total.Add(inv.RemainingBalance)
	}
	return total
}

// Reconciled reports whether currentBalance matches the invoice sum.
// The two can drift when the underlying ledger changes mid-session.
func (a *SupplierAccount) Reconciled() bool {
	return a.CurrentBalance.Equal(a.OutstandingTotal())
}
