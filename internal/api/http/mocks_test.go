package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"splitbill-backend/internal/domain"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateEvent(ctx context.Context, ownerID string, req *domain.CreateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockLedgerService) AddParticipant(ctx context.Context, req *domain.AddParticipantRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerService) AddExpense(ctx context.Context, req *domain.AddExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockLedgerService) MarkSharePaid(ctx context.Context, userID string, req *domain.MarkSharePaidRequest) (*domain.SettlementOutcome, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementOutcome), args.Error(1)
}

func (m *MockLedgerService) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockLedgerService) ListEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockLedgerService) GetEventDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventDetails), args.Error(1)
}

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) GetReconciliation(ctx context.Context, eventID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

type MockFriendService struct {
	mock.Mock
}

func (m *MockFriendService) AddFriend(ctx context.Context, userID, friendEmail string) (*domain.User, error) {
	args := m.Called(ctx, userID, friendEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockFriendService) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, email, password, displayName string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password, displayName)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

// stubProvider accepts "token-<uid>" bearer tokens.
type stubProvider struct{}

func (stubProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	if len(token) > 6 && token[:6] == "token-" {
		return token[6:], nil
	}
	return "", &domain.AuthError{Reason: "invalid token"}
}

func (stubProvider) LookupByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.NewNotFoundError("user", email)
}

func (stubProvider) LookupByID(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (stubProvider) LookupByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	return nil, nil
}
