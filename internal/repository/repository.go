package repository

import (
	"context"

	"splitbill-backend/internal/domain"
)

type EventRepository interface {
	// Create inserts the event and its participant rows atomically.
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Event, error)
	// AddParticipant reports whether a new row was inserted.
	AddParticipant(ctx context.Context, eventID, userID string) (bool, error)
	// Lock moves an OPEN event to LOCKED and reports whether it changed.
	Lock(ctx context.Context, eventID string) (bool, error)
}

type ExpenseRepository interface {
	// Create inserts the expense and its share rows atomically. It fails with
	// a ConflictError when the event is no longer OPEN.
	Create(ctx context.Context, expense *domain.Expense) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.Expense, error)
	ListUnpaidSharesInLockedEvents(ctx context.Context) ([]domain.UnpaidShare, error)
}

// SettlementRepository runs the mark-paid cascade inside one transaction.
type SettlementRepository interface {
	WithinTx(ctx context.Context, fn func(tx SettlementTx) error) error
}

// SettlementTx is the set of row operations available inside a settlement
// transaction. LockEvent must be called first.
type SettlementTx interface {
	LockEvent(ctx context.Context, eventID string) (*domain.Event, error)
	GetExpense(ctx context.Context, eventID, expenseID string) (*domain.Expense, error)
	MarkSharePaid(ctx context.Context, eventID, expenseID, userID string) (bool, error)
	CountUnpaidShares(ctx context.Context, eventID, expenseID, excludeUserID string) (int, error)
	MarkExpensePaid(ctx context.Context, eventID, expenseID string) error
	CountUnpaidExpenses(ctx context.Context, eventID string) (int, error)
	FinishEvent(ctx context.Context, eventID string) error
}

type FriendRepository interface {
	// AddPair inserts both directions of the friendship and reports whether
	// anything new was stored.
	AddPair(ctx context.Context, userID, friendID string) (bool, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}

// UserRepository backs the local identity provider.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}
