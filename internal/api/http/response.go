package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type userResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type eventResponse struct {
	EventID      string   `json:"event_id"`
	OwnerID      string   `json:"owner_id"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"created_at,omitempty"`
	Participants []string `json:"participants"`
}

type shareResponse struct {
	UserID string `json:"user_id"`
	IsPaid bool   `json:"is_paid"`
}

type expenseResponse struct {
	ExpenseID     string          `json:"expense_id"`
	EventID       string          `json:"event_id"`
	Name          string          `json:"name"`
	Amount        string          `json:"amount"`
	PayerID       string          `json:"payer_id"`
	Status        string          `json:"status"`
	IsPaid        bool            `json:"is_paid"`
	Share         string          `json:"share"`
	CreatedAt     string          `json:"created_at,omitempty"`
	Beneficiaries []string        `json:"beneficiaries"`
	Shares        []shareResponse `json:"shares"`
}

type eventDetailsResponse struct {
	eventResponse
	Expenses []expenseResponse `json:"expenses"`
}

type balanceResponse struct {
	UserID string `json:"user_id"`
	Label  string `json:"label"`
	Paid   string `json:"paid"`
	Owed   string `json:"owed"`
	Net    string `json:"net"`
}

type reconciliationResponse struct {
	EventID  string            `json:"event_id"`
	Status   string            `json:"status"`
	Balances []balanceResponse `json:"balances"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

type settlementResponse struct {
	Success       bool `json:"success"`
	ExpensePaid   bool `json:"expense_paid"`
	EventFinished bool `json:"event_finished"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{UID: u.ID, Email: u.Email, Name: u.DisplayName}
}

func toEventResponse(e *domain.Event) eventResponse {
	participants := e.Participants
	if participants == nil {
		participants = []string{}
	}
	return eventResponse{
		EventID:      e.ID,
		OwnerID:      e.OwnerID,
		Name:         e.Name,
		Status:       string(e.Status),
		CreatedAt:    formatTime(e.CreatedAt),
		Participants: participants,
	}
}

func toExpenseResponse(x *domain.Expense) expenseResponse {
	shares := make([]shareResponse, len(x.Shares))
	for i, s := range x.Shares {
		shares[i] = shareResponse{UserID: s.UserID, IsPaid: s.IsPaid}
	}
	return expenseResponse{
		ExpenseID:     x.ID,
		EventID:       x.EventID,
		Name:          x.Name,
		Amount:        x.Amount.StringFixed(2),
		PayerID:       x.PayerID,
		Status:        string(x.Status),
		IsPaid:        x.IsPaid,
		Share:         x.Share().StringFixed(2),
		CreatedAt:     formatTime(x.CreatedAt),
		Beneficiaries: x.Beneficiaries(),
		Shares:        shares,
	}
}

func toReconciliationResponse(r *domain.Reconciliation) reconciliationResponse {
	balances := make([]balanceResponse, len(r.Balances))
	for i, b := range r.Balances {
		balances[i] = balanceResponse{
			UserID: b.UserID,
			Label:  b.Label,
			Paid:   b.Paid.StringFixed(2),
			Owed:   b.Owed.StringFixed(2),
			Net:    b.Net.StringFixed(2),
		}
	}
	return reconciliationResponse{EventID: r.EventID, Status: string(r.Status), Balances: balances}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

// statusCode maps a service error to its HTTP status.
func statusCode(err error) int {
	var (
		validation *domain.ValidationError
		authErr    *domain.AuthError
		notFound   *domain.NotFoundError
		unknown    *domain.UnknownUserError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unknown):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, code, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
