package payables

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/shared/valueobject"
)

// Allocation is a proposed application of part of a payment to one invoice
type Allocation struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// SumAllocations returns the total of all allocation amounts
func SumAllocations(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// AutoAllocate distributes paymentAmount across invoices oldest-first.
//
// Invoices are walked in ascending due date order (ties broken by ID); each
// receives min(remainingBalance, unapplied payment) until the payment is
// exhausted or the list ends. Invoices that would receive zero are omitted.
// The returned leftover is non-zero only when paymentAmount exceeds the sum
// of all remaining balances.
//
// Callers must never invoke this with a non-positive amount; doing so is an
// error rather than an empty result so the mistake surfaces immediately.
func AutoAllocate(paymentAmount decimal.Decimal, invoices []Invoice) ([]Allocation, decimal.Decimal, error) {
	if paymentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	remaining := valueobject.NewMoney(paymentAmount)
	allocations := make([]Allocation, 0, len(invoices))

	for _, inv := range SortInvoicesByDueDate(invoices) {
		if !remaining.IsPositive() {
			break
		}
		balance := valueobject.NewMoney(inv.RemainingBalance)
		if !balance.IsPositive() {
			continue
		}

		amount := remaining.Min(balance)
		allocations = append(allocations, Allocation{
			InvoiceID: inv.ID,
			Amount:    amount.Amount(),
		})
		remaining = remaining.Sub(amount)
	}

	return allocations, remaining.Amount(), nil
}
