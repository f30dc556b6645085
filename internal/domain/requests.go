package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CreateEventRequest is the input of CreateEvent.
type CreateEventRequest struct {
	Name            string   `json:"name"`
	ParticipantRefs []string `json:"participants"`
}

func (r *CreateEventRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	return validateRefs("participants", r.ParticipantRefs)
}

// AddParticipantRequest is the input of AddParticipant. UserRef may be a user
// id or an email.
type AddParticipantRequest struct {
	EventID string `json:"event_id"`
	UserRef string `json:"user_id"`
}

func (r *AddParticipantRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return NewValidationError("event_id", "must not be empty")
	}
	if strings.TrimSpace(r.UserRef) == "" {
		return NewValidationError("user_id", "must not be empty")
	}
	return nil
}

// AddExpenseRequest is the input of AddExpense.
type AddExpenseRequest struct {
	EventID         string          `json:"event_id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	PayerRef        string          `json:"payer_id"`
	BeneficiaryRefs []string        `json:"beneficiaries"`
}

// amountScale is the number of fractional digits an amount may carry.
const amountScale = 2

func (r *AddExpenseRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return NewValidationError("event_id", "must not be empty")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if !r.Amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	if !r.Amount.Equal(r.Amount.Truncate(amountScale)) {
		return NewValidationError("amount", "must have at most two decimal places")
	}
	if strings.TrimSpace(r.PayerRef) == "" {
		return NewValidationError("payer_id", "must not be empty")
	}
	return validateRefs("beneficiaries", r.BeneficiaryRefs)
}

// MarkSharePaidRequest is the input of MarkSharePaid. The beneficiary is
// always the authenticated caller.
type MarkSharePaidRequest struct {
	EventID   string `json:"event_id"`
	ExpenseID string `json:"expense_id"`
}

func (r *MarkSharePaidRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return NewValidationError("event_id", "must not be empty")
	}
	if strings.TrimSpace(r.ExpenseID) == "" {
		return NewValidationError("expense_id", "must not be empty")
	}
	return nil
}

func validateRefs(field string, refs []string) error {
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			return NewValidationError(field, "must not contain blank entries")
		}
	}
	return nil
}
