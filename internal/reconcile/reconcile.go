// Package reconcile derives per-participant balances from an event's expenses.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"splitbill-backend/internal/domain"
)

type tally struct {
	paid decimal.Decimal
	owed decimal.Decimal
}

// Compute builds one balance row for every member, payer and beneficiary.
//
// The payer of an expense is credited the full amount. Each beneficiary is
// charged amount/len(shares): a settled share moves to paid, an unsettled one
// to owed. Labels missing from labels fall back to the user id. Rows are
// ordered by label, then id.
func Compute(members []string, expenses []domain.Expense, labels map[string]string) []domain.Balance {
	tallies := map[string]*tally{}
	touch := func(userID string) *tally {
		t, ok := tallies[userID]
		if !ok {
			t = &tally{paid: decimal.Zero, owed: decimal.Zero}
			tallies[userID] = t
		}
		return t
	}

	for _, id := range members {
		touch(id)
	}

	for _, x := range expenses {
		payer := touch(x.PayerID)
		payer.paid = payer.paid.Add(x.Amount)

		share := x.Share()
		for _, usage := range x.Shares {
			t := touch(usage.UserID)
			if usage.IsPaid {
				t.paid = t.paid.Add(share)
			} else {
				t.owed = t.owed.Add(share)
			}
		}
	}

	balances := make([]domain.Balance, 0, len(tallies))
	for id, t := range tallies {
		label := labels[id]
		if label == "" {
			label = id
		}
		balances = append(balances, domain.Balance{
			UserID: id,
			Label:  label,
			Paid:   t.paid,
			Owed:   t.owed,
			Net:    t.paid.Sub(t.owed),
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Label != balances[j].Label {
			return balances[i].Label < balances[j].Label
		}
		return balances[i].UserID < balances[j].UserID
	})
	return balances
}

// TotalNet sums the net column. It is zero while no share has been settled.
func TotalNet(balances []domain.Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Net)
	}
	return total
}
