package domain

import "github.com/shopspring/decimal"

// Balance is one participant's row of an event reconciliation.
// A positive Net means the participant is owed money overall.
type Balance struct {
	UserID string          `json:"user_id"`
	Label  string          `json:"label"`
	Paid   decimal.Decimal `json:"paid"`
	Owed   decimal.Decimal `json:"owed"`
	Net    decimal.Decimal `json:"net"`
}

type Reconciliation struct {
	EventID  string      `json:"event_id"`
	Status   EventStatus `json:"status"`
	Balances []Balance   `json:"balances"`
}
