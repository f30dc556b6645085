package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/service"
)

// Handler serves the JSON API on top of the services.
type Handler struct {
	authSvc   service.AuthService
	ledgerSvc service.LedgerService
	reconSvc  service.ReconciliationService
	friendSvc service.FriendService
}

func NewHandler(
	authSvc service.AuthService,
	ledgerSvc service.LedgerService,
	reconSvc service.ReconciliationService,
	friendSvc service.FriendService,
) *Handler {
	return &Handler{
		authSvc:   authSvc,
		ledgerSvc: ledgerSvc,
		reconSvc:  reconSvc,
		friendSvc: friendSvc,
	}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type participantRequest struct {
	UserRef string `json:"user_id"`
}

type friendRequest struct {
	FriendEmail string `json:"friend_email"`
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("", "malformed JSON body")
	}
	return nil
}

func callerID(r *http.Request) (string, error) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		return "", &domain.AuthError{Reason: "missing user id"}
	}
	return id, nil
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	user, token, err := h.authSvc.Signup(r.Context(), in.Email, in.Password, in.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user), AccessToken: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	user, token, err := h.authSvc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), AccessToken: token})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.ledgerSvc.ListEvents(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]eventResponse, len(events))
	for i := range events {
		out[i] = toEventResponse(&events[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in domain.CreateEventRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	event, err := h.ledgerSvc.CreateEvent(r.Context(), userID, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *Handler) GetEventDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.ledgerSvc.GetEventDetails(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, err)
		return
	}
	expenses := make([]expenseResponse, len(details.Expenses))
	for i := range details.Expenses {
		expenses[i] = toExpenseResponse(&details.Expenses[i])
	}
	writeJSON(w, http.StatusOK, eventDetailsResponse{
		eventResponse: toEventResponse(&details.Event),
		Expenses:      expenses,
	})
}

func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var in participantRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	eventID := mux.Vars(r)["eventId"]
	userID, err := h.ledgerSvc.AddParticipant(r.Context(), &domain.AddParticipantRequest{EventID: eventID, UserRef: in.UserRef})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"event_id": eventID, "user_id": userID})
}

func (h *Handler) LockEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.ledgerSvc.LockEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var in domain.AddExpenseRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	in.EventID = mux.Vars(r)["eventId"]
	expense, err := h.ledgerSvc.AddExpense(r.Context(), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handler) MarkSharePaid(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	outcome, err := h.ledgerSvc.MarkSharePaid(r.Context(), userID, &domain.MarkSharePaidRequest{
		EventID:   vars["eventId"],
		ExpenseID: vars["expenseId"],
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlementResponse{
		Success:       true,
		ExpensePaid:   outcome.ExpensePaid,
		EventFinished: outcome.EventFinished,
	})
}

func (h *Handler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reconSvc.GetReconciliation(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconciliationResponse(rec))
}

func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	friends, err := h.friendSvc.ListFriends(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]userResponse, len(friends))
	for i := range friends {
		out[i] = toUserResponse(&friends[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"friends": out})
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in friendRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	friend, err := h.friendSvc.AddFriend(r.Context(), userID, in.FriendEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "friend": toUserResponse(friend)})
}
