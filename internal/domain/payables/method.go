package payables

import (
	"github.com/google/uuid"
)

// PaymentMethod represents how the payment leaves the company
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"          // paid from a station wallet
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER" // paid from a bank account
)

// IsValid checks if the method is a recognized PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ApplicationMethod represents how the payment is spread across invoices
type ApplicationMethod string

const (
	ApplicationMethodOldestFirst ApplicationMethod = "OLDEST_FIRST" // automatic, ascending due date
	ApplicationMethodManual      ApplicationMethod = "MANUAL"       // explicit per-invoice entry
)

// IsValid checks if the method is a recognized ApplicationMethod
func (m ApplicationMethod) IsValid() bool {
	switch m {
	case ApplicationMethodOldestFirst, ApplicationMethodManual:
		return true
	}
	return false
}

// String returns the string representation of ApplicationMethod
func (m ApplicationMethod) String() string {
	return string(m)
}

// MethodDetail carries the method-specific source of funds:
// a station wallet for CASH, a bank account for BANK_TRANSFER.
type MethodDetail struct {
	StationID     *uuid.UUID `json:"station_id,omitempty"`
	BankAccountID *uuid.UUID `json:"bank_account_id,omitempty"`
}

// Complete reports whether the detail required by the given method is present
func (d MethodDetail) Complete(method PaymentMethod) bool {
	switch method {
	case PaymentMethodCash:
		return d.StationID != nil && *d.StationID != uuid.Nil
	case PaymentMethodBankTransfer:
		return d.BankAccountID != nil && *d.BankAccountID != uuid.Nil
	}
	return false
}
