package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
)

type ledgerService struct {
	eventRepo      repository.EventRepository
	expenseRepo    repository.ExpenseRepository
	settlementRepo repository.SettlementRepository
	resolver       IdentityResolver
	emailSvc       EmailService
	newID          func() string
}

func NewLedgerService(
	eventRepo repository.EventRepository,
	expenseRepo repository.ExpenseRepository,
	settlementRepo repository.SettlementRepository,
	resolver IdentityResolver,
	emailSvc EmailService,
) LedgerService {
	return &ledgerService{
		eventRepo:      eventRepo,
		expenseRepo:    expenseRepo,
		settlementRepo: settlementRepo,
		resolver:       resolver,
		emailSvc:       emailSvc,
		newID:          uuid.NewString,
	}
}

func (s *ledgerService) CreateEvent(ctx context.Context, ownerID string, req *domain.CreateEventRequest) (*domain.Event, error) {
	logger.EnterMethod("ledgerService.CreateEvent", "ownerID", ownerID, "name", req.Name)

	if ownerID == "" {
		err := &domain.AuthError{Reason: "caller identity is required"}
		logger.ExitMethodWithError("ledgerService.CreateEvent", err)
		return nil, err
	}
	if err := req.Validate(); err != nil {
		logger.ExitMethodWithError("ledgerService.CreateEvent", err, "ownerID", ownerID)
		return nil, err
	}

	participants, err := s.resolver.ResolveDistinct(ctx, req.ParticipantRefs)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.CreateEvent", err, "ownerID", ownerID)
		return nil, err
	}

	event := &domain.Event{
		ID:           s.newID(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Status:       domain.EventStatusOpen,
		Participants: participants,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		logger.ExitMethodWithError("ledgerService.CreateEvent", err, "ownerID", ownerID)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logger.ExitMethod("ledgerService.CreateEvent", "eventID", event.ID, "participants", len(participants))
	return event, nil
}

func (s *ledgerService) AddParticipant(ctx context.Context, req *domain.AddParticipantRequest) (string, error) {
	logger.EnterMethod("ledgerService.AddParticipant", "eventID", req.EventID, "userRef", req.UserRef)

	if err := req.Validate(); err != nil {
		logger.ExitMethodWithError("ledgerService.AddParticipant", err)
		return "", err
	}
	if _, err := s.eventRepo.GetByID(ctx, req.EventID); err != nil {
		logger.ExitMethodWithError("ledgerService.AddParticipant", err, "eventID", req.EventID)
		return "", err
	}

	ids, err := s.resolver.Resolve(ctx, []string{req.UserRef})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.AddParticipant", err, "eventID", req.EventID)
		return "", err
	}
	userID := ids[0]

	added, err := s.eventRepo.AddParticipant(ctx, req.EventID, userID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.AddParticipant", err, "eventID", req.EventID)
		return "", fmt.Errorf("failed to add participant: %w", err)
	}

	logger.ExitMethod("ledgerService.AddParticipant", "eventID", req.EventID, "userID", userID, "added", added)
	return userID, nil
}

func (s *ledgerService) AddExpense(ctx context.Context, req *domain.AddExpenseRequest) (*domain.Expense, error) {
	logger.EnterMethod("ledgerService.AddExpense", "eventID", req.EventID, "name", req.Name, "amount", req.Amount.String())

	if err := req.Validate(); err != nil {
		logger.ExitMethodWithError("ledgerService.AddExpense", err)
		return nil, err
	}

	payer, err := s.resolver.Resolve(ctx, []string{req.PayerRef})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.AddExpense", err, "eventID", req.EventID)
		return nil, err
	}
	beneficiaries, err := s.resolver.ResolveDistinct(ctx, req.BeneficiaryRefs)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.AddExpense", err, "eventID", req.EventID)
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.AddExpense", err, "eventID", req.EventID)
		return nil, err
	}
	if event.Status != domain.EventStatusOpen {
		err := &domain.ConflictError{Reason: fmt.Sprintf("event %s is %s", event.ID, event.Status)}
		logger.ExitMethodWithError("ledgerService.AddExpense", err, "eventID", req.EventID)
		return nil, err
	}
	if !event.IsMember(payer[0]) {
		err := domain.NewValidationError("payer_id", "payer must be the owner or a participant of the event")
		logger.ExitMethodWithError("ledgerService.AddExpense", err, "eventID", req.EventID)
		return nil, err
	}

	expense := &domain.Expense{
		ID:      s.newID(),
		EventID: event.ID,
		Name:    req.Name,
		Amount:  req.Amount,
		PayerID: payer[0],
		Status:  domain.ExpenseStatusPending,
		Shares:  make([]domain.ExpenseUsage, 0, len(beneficiaries)),
	}
	outstanding := 0
	for _, id := range beneficiaries {
		expense.Shares = append(expense.Shares, domain.ExpenseUsage{EventID: event.ID, ExpenseID: expense.ID, UserID: id})
		if id != expense.PayerID {
			outstanding++
		}
	}
	// Nobody but the payer owes anything, so there is no share left to settle.
	if outstanding == 0 {
		expense.Status = domain.ExpenseStatusPaid
		expense.IsPaid = true
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		logger.ExitMethodWithError("ledgerService.AddExpense", err, "eventID", req.EventID)
		if domain.IsConflict(err) || domain.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}

	logger.ExitMethod("ledgerService.AddExpense", "eventID", event.ID, "expenseID", expense.ID, "beneficiaries", len(beneficiaries))
	return expense, nil
}

// MarkSharePaid settles the caller's share and re-evaluates the expense and
// event in the same transaction. The event row lock serialises concurrent
// settlements of one event.
func (s *ledgerService) MarkSharePaid(ctx context.Context, userID string, req *domain.MarkSharePaidRequest) (*domain.SettlementOutcome, error) {
	logger.EnterMethod("ledgerService.MarkSharePaid", "userID", userID, "eventID", req.EventID, "expenseID", req.ExpenseID)

	if userID == "" {
		err := &domain.AuthError{Reason: "caller identity is required"}
		logger.ExitMethodWithError("ledgerService.MarkSharePaid", err)
		return nil, err
	}
	if err := req.Validate(); err != nil {
		logger.ExitMethodWithError("ledgerService.MarkSharePaid", err)
		return nil, err
	}

	outcome := &domain.SettlementOutcome{}
	finishedNow := false
	err := s.settlementRepo.WithinTx(ctx, func(tx repository.SettlementTx) error {
		event, err := tx.LockEvent(ctx, req.EventID)
		if err != nil {
			return err
		}
		expense, err := tx.GetExpense(ctx, req.EventID, req.ExpenseID)
		if err != nil {
			return err
		}

		found, err := tx.MarkSharePaid(ctx, req.EventID, req.ExpenseID, userID)
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Resource: "share", ID: fmt.Sprintf("%s/%s", req.ExpenseID, userID)}
		}

		remaining, err := tx.CountUnpaidShares(ctx, req.EventID, req.ExpenseID, expense.PayerID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.MarkExpensePaid(ctx, req.EventID, req.ExpenseID); err != nil {
				return err
			}
			outcome.ExpensePaid = true
		}

		open, err := tx.CountUnpaidExpenses(ctx, req.EventID)
		if err != nil {
			return err
		}
		if open == 0 {
			if err := tx.FinishEvent(ctx, req.EventID); err != nil {
				return err
			}
			outcome.EventFinished = true
			finishedNow = event.Status != domain.EventStatusFinished
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.MarkSharePaid", err, "eventID", req.EventID, "expenseID", req.ExpenseID)
		return nil, err
	}

	if finishedNow {
		s.notifySettled(ctx, req.EventID)
	}

	logger.ExitMethod("ledgerService.MarkSharePaid", "eventID", req.EventID, "expenseID", req.ExpenseID,
		"expensePaid", outcome.ExpensePaid, "eventFinished", outcome.EventFinished)
	return outcome, nil
}

// notifySettled emails every member of a freshly finished event. Failures are
// logged only.
func (s *ledgerService) notifySettled(ctx context.Context, eventID string) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		logger.Warn("Failed to load finished event for notification", "eventID", eventID, "error", err)
		return
	}
	members := append([]string{event.OwnerID}, event.Participants...)
	users, err := s.resolver.Users(ctx, members)
	if err != nil {
		logger.Warn("Failed to look up members for notification", "eventID", eventID, "error", err)
		return
	}
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		if err := s.emailSvc.SendEventSettled(ctx, u, event.Name); err != nil {
			logger.Warn("Failed to send event settled email", "eventID", eventID, "userID", u.ID, "error", err)
		}
	}
}

// LockEvent moves an OPEN event to LOCKED. Locking a LOCKED or FINISHED
// event leaves it unchanged.
func (s *ledgerService) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	logger.EnterMethod("ledgerService.LockEvent", "eventID", eventID)

	if eventID == "" {
		err := domain.NewValidationError("event_id", "must not be empty")
		logger.ExitMethodWithError("ledgerService.LockEvent", err)
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.LockEvent", err, "eventID", eventID)
		return nil, err
	}
	if event.Status != domain.EventStatusOpen {
		logger.ExitMethod("ledgerService.LockEvent", "eventID", eventID, "status", event.Status, "changed", false)
		return event, nil
	}

	changed, err := s.eventRepo.Lock(ctx, eventID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.LockEvent", err, "eventID", eventID)
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}
	if changed {
		event.Status = domain.EventStatusLocked
	} else {
		// Another request moved the event on between the read and the update.
		if event, err = s.eventRepo.GetByID(ctx, eventID); err != nil {
			logger.ExitMethodWithError("ledgerService.LockEvent", err, "eventID", eventID)
			return nil, err
		}
	}

	logger.ExitMethod("ledgerService.LockEvent", "eventID", eventID, "status", event.Status, "changed", changed)
	return event, nil
}

func (s *ledgerService) ListEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	logger.EnterMethod("ledgerService.ListEvents", "userID", userID)

	events, err := s.eventRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.ListEvents", err, "userID", userID)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	logger.ExitMethod("ledgerService.ListEvents", "userID", userID, "count", len(events))
	return events, nil
}

func (s *ledgerService) GetEventDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	logger.EnterMethod("ledgerService.GetEventDetails", "eventID", eventID)

	if eventID == "" {
		err := domain.NewValidationError("event_id", "must not be empty")
		logger.ExitMethodWithError("ledgerService.GetEventDetails", err)
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.GetEventDetails", err, "eventID", eventID)
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByEvent(ctx, eventID)
	if err != nil {
		logger.ExitMethodWithError("ledgerService.GetEventDetails", err, "eventID", eventID)
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	logger.ExitMethod("ledgerService.GetEventDetails", "eventID", eventID, "expenses", len(expenses))
	return &domain.EventDetails{Event: *event, Expenses: expenses}, nil
}
