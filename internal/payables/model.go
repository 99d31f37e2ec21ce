// Package payables is the back-office bills ledger: rent, suppliers,
// anything the retailer owes, tracked from pending to paid.
package payables

import "github.com/shopspring/decimal"

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Status) Valid() bool { return s == StatusPending || s == StatusPaid }

// Account is one bill. Dates are calendar days (YYYY-MM-DD); the ledger
// cares about the day a bill is due or was settled, never the time.
type Account struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	// NUMERIC in Postgres, decimal in Go, same as product prices.
	Amount   decimal.Decimal `json:"amount"`
	DueDate  string          `json:"due_date"`
	Status   Status          `json:"status"`
	PaidDate string          `json:"paid_date,omitempty"`
}

// SaveAccountRequest payload for create-or-edit.
type SaveAccountRequest struct {
	Description string `json:"description" example:"Aluguel"`
	Amount      string `json:"amount"      example:"1200.00"`
	DueDate     string `json:"due_date"    example:"2024-04-05"`
}
