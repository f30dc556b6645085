package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseStatus string

const (
	ExpenseStatusPending ExpenseStatus = "PENDING"
	ExpenseStatusPaid    ExpenseStatus = "PAID"
)

type Expense struct {
	ID        string          `json:"expense_id"`
	EventID   string          `json:"event_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	PayerID   string          `json:"payer_id"`
	Status    ExpenseStatus   `json:"status"`
	IsPaid    bool            `json:"is_paid"`
	CreatedAt time.Time       `json:"created_at"`
	Shares    []ExpenseUsage  `json:"shares"`
}

// Beneficiaries returns the user ids that owe a share of the expense.
func (e *Expense) Beneficiaries() []string {
	ids := make([]string, len(e.Shares))
	for i, s := range e.Shares {
		ids[i] = s.UserID
	}
	return ids
}

// Share is the equal portion each beneficiary owes. An expense without
// beneficiaries has a zero share.
func (e *Expense) Share() decimal.Decimal {
	if len(e.Shares) == 0 {
		return decimal.Zero
	}
	return e.Amount.Div(decimal.NewFromInt(int64(len(e.Shares))))
}

// ExpenseUsage records that UserID owes one equal share of an expense.
type ExpenseUsage struct {
	EventID   string `json:"event_id"`
	ExpenseID string `json:"expense_id"`
	UserID    string `json:"user_id"`
	IsPaid    bool   `json:"is_paid"`
}

// UnpaidShare is an outstanding share joined with the context a reminder needs.
type UnpaidShare struct {
	EventID     string          `json:"event_id"`
	EventName   string          `json:"event_name"`
	ExpenseID   string          `json:"expense_id"`
	ExpenseName string          `json:"expense_name"`
	UserID      string          `json:"user_id"`
	Share       decimal.Decimal `json:"share"`
}

// SettlementOutcome reports which cascades fired after a share was paid.
type SettlementOutcome struct {
	ExpensePaid   bool `json:"expense_paid"`
	EventFinished bool `json:"event_finished"`
}
