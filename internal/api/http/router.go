package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"splitbill-backend/internal/identity"
)

// NewRouter builds the /api/v1 routes. Auth routes are public; the rest
// require a bearer token.
func NewRouter(h *Handler, provider identity.Provider) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(provider))

	protected.HandleFunc("/events", h.ListEvents).Methods(http.MethodGet)
	protected.HandleFunc("/events", h.CreateEvent).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}", h.GetEventDetails).Methods(http.MethodGet)
	protected.HandleFunc("/events/{eventId}/participants", h.AddParticipant).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/lock", h.LockEvent).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/expenses", h.AddExpense).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/expenses/{expenseId}/pay", h.MarkSharePaid).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/reconciliation", h.GetReconciliation).Methods(http.MethodGet)

	protected.HandleFunc("/friends", h.ListFriends).Methods(http.MethodGet)
	protected.HandleFunc("/friends", h.AddFriend).Methods(http.MethodPost)

	return r
}
