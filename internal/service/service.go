package service

import (
	"context"

	"splitbill-backend/internal/domain"
)

// IdentityResolver turns user references into canonical user ids.
type IdentityResolver interface {
	// Resolve maps each reference to a user id, preserving order. References
	// containing '@' are looked up by email; anything else is taken as an id.
	Resolve(ctx context.Context, refs []string) ([]string, error)
	// ResolveDistinct is Resolve with duplicates removed, first occurrence kept.
	ResolveDistinct(ctx context.Context, refs []string) ([]string, error)
	// Labels maps ids to display labels. It never fails; unknown ids map to themselves.
	Labels(ctx context.Context, ids []string) map[string]string
	// Users returns the identity records that exist among ids.
	Users(ctx context.Context, ids []string) ([]domain.User, error)
}

type LedgerService interface {
	CreateEvent(ctx context.Context, ownerID string, req *domain.CreateEventRequest) (*domain.Event, error)
	// AddParticipant returns the resolved id of the participant.
	AddParticipant(ctx context.Context, req *domain.AddParticipantRequest) (string, error)
	AddExpense(ctx context.Context, req *domain.AddExpenseRequest) (*domain.Expense, error)
	MarkSharePaid(ctx context.Context, userID string, req *domain.MarkSharePaidRequest) (*domain.SettlementOutcome, error)
	LockEvent(ctx context.Context, eventID string) (*domain.Event, error)
	ListEvents(ctx context.Context, userID string) ([]domain.Event, error)
	GetEventDetails(ctx context.Context, eventID string) (*domain.EventDetails, error)
}

type ReconciliationService interface {
	GetReconciliation(ctx context.Context, eventID string) (*domain.Reconciliation, error)
}

type FriendService interface {
	AddFriend(ctx context.Context, userID, friendEmail string) (*domain.User, error)
	ListFriends(ctx context.Context, userID string) ([]domain.User, error)
}

// AuthService issues tokens for the local identity provider.
type AuthService interface {
	Signup(ctx context.Context, email, password, displayName string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type EmailService interface {
	SendEventSettled(ctx context.Context, to domain.User, eventName string) error
	SendShareReminder(ctx context.Context, to domain.User, shares []domain.UnpaidShare) error
	SendFriendAdded(ctx context.Context, to domain.User, by domain.User) error
}

// IsClientError reports whether err was caused by the caller rather than by
// the server. It is installed as the logger's client error classifier.
func IsClientError(err error) bool {
	return domain.IsValidation(err) || domain.IsAuth(err) || domain.IsNotFound(err) ||
		domain.IsUnknownUser(err) || domain.IsConflict(err)
}
