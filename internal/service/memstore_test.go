package service_test

import (
	"context"
	"sync"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/repository"
)

// memState is an in-memory ledger used to drive whole scenarios through the
// service. A settlement transaction holds mu for its whole duration and
// restores a snapshot when it fails.
type memState struct {
	mu       sync.Mutex
	events   map[string]*domain.Event
	expenses []*domain.Expense
}

func newMemState() *memState {
	return &memState{events: map[string]*domain.Event{}}
}

func (s *memState) repos() (repository.EventRepository, repository.ExpenseRepository, repository.SettlementRepository) {
	return &memEvents{s}, &memExpenses{s}, &memSettlements{s}
}

func (s *memState) event(id string) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEvent(s.events[id])
}

func (s *memState) expense(id string) domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.expenses {
		if x.ID == id {
			return copyExpense(x)
		}
	}
	return domain.Expense{}
}

func (s *memState) expenseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expenses)
}

func copyEvent(e *domain.Event) domain.Event {
	c := *e
	c.Participants = append([]string{}, e.Participants...)
	return c
}

func copyExpense(x *domain.Expense) domain.Expense {
	c := *x
	c.Shares = append([]domain.ExpenseUsage{}, x.Shares...)
	return c
}

type memEvents struct{ s *memState }

func (r *memEvents) Create(ctx context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := copyEvent(event)
	r.s.events[event.ID] = &c
	return nil
}

func (r *memEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.NewNotFoundError("event", id)
	}
	c := copyEvent(e)
	return &c, nil
}

func (r *memEvents) ListByUser(ctx context.Context, userID string) ([]domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Event{}
	for _, e := range r.s.events {
		if e.IsMember(userID) {
			out = append(out, copyEvent(e))
		}
	}
	return out, nil
}

func (r *memEvents) AddParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eventID]
	if !ok {
		return false, domain.NewNotFoundError("event", eventID)
	}
	for _, p := range e.Participants {
		if p == userID {
			return false, nil
		}
	}
	e.Participants = append(e.Participants, userID)
	return true, nil
}

func (r *memEvents) Lock(ctx context.Context, eventID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eventID]
	if !ok || e.Status != domain.EventStatusOpen {
		return false, nil
	}
	e.Status = domain.EventStatusLocked
	return true, nil
}

type memExpenses struct{ s *memState }

func (r *memExpenses) Create(ctx context.Context, expense *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[expense.EventID]
	if !ok {
		return domain.NewNotFoundError("event", expense.EventID)
	}
	if e.Status != domain.EventStatusOpen {
		return &domain.ConflictError{Reason: "event is not open"}
	}
	c := copyExpense(expense)
	r.s.expenses = append(r.s.expenses, &c)
	return nil
}

func (r *memExpenses) ListByEvent(ctx context.Context, eventID string) ([]domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Expense{}
	for _, x := range r.s.expenses {
		if x.EventID == eventID {
			out = append(out, copyExpense(x))
		}
	}
	return out, nil
}

func (r *memExpenses) ListUnpaidSharesInLockedEvents(ctx context.Context) ([]domain.UnpaidShare, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.UnpaidShare{}
	for _, x := range r.s.expenses {
		e := r.s.events[x.EventID]
		if e.Status != domain.EventStatusLocked {
			continue
		}
		for _, u := range x.Shares {
			if !u.IsPaid && u.UserID != x.PayerID {
				out = append(out, domain.UnpaidShare{EventID: e.ID, EventName: e.Name, ExpenseID: x.ID,
					ExpenseName: x.Name, UserID: u.UserID, Share: x.Share()})
			}
		}
	}
	return out, nil
}

type memSettlements struct{ s *memState }

func (r *memSettlements) WithinTx(ctx context.Context, fn func(tx repository.SettlementTx) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	events := map[string]domain.Event{}
	for id, e := range r.s.events {
		events[id] = copyEvent(e)
	}
	expenses := make([]domain.Expense, len(r.s.expenses))
	for i, x := range r.s.expenses {
		expenses[i] = copyExpense(x)
	}

	if err := fn(&memTx{r.s}); err != nil {
		for id := range events {
			e := events[id]
			r.s.events[id] = &e
		}
		for i := range expenses {
			r.s.expenses[i] = &expenses[i]
		}
		return err
	}
	return nil
}

type memTx struct{ s *memState }

func (t *memTx) find(eventID, expenseID string) *domain.Expense {
	for _, x := range t.s.expenses {
		if x.EventID == eventID && x.ID == expenseID {
			return x
		}
	}
	return nil
}

func (t *memTx) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	e, ok := t.s.events[eventID]
	if !ok {
		return nil, domain.NewNotFoundError("event", eventID)
	}
	c := copyEvent(e)
	return &c, nil
}

func (t *memTx) GetExpense(ctx context.Context, eventID, expenseID string) (*domain.Expense, error) {
	x := t.find(eventID, expenseID)
	if x == nil {
		return nil, domain.NewNotFoundError("expense", expenseID)
	}
	c := copyExpense(x)
	return &c, nil
}

func (t *memTx) MarkSharePaid(ctx context.Context, eventID, expenseID, userID string) (bool, error) {
	x := t.find(eventID, expenseID)
	if x == nil {
		return false, nil
	}
	for i := range x.Shares {
		if x.Shares[i].UserID == userID {
			x.Shares[i].IsPaid = true
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CountUnpaidShares(ctx context.Context, eventID, expenseID, excludeUserID string) (int, error) {
	count := 0
	for _, u := range t.find(eventID, expenseID).Shares {
		if !u.IsPaid && u.UserID != excludeUserID {
			count++
		}
	}
	return count, nil
}

func (t *memTx) MarkExpensePaid(ctx context.Context, eventID, expenseID string) error {
	x := t.find(eventID, expenseID)
	x.IsPaid = true
	x.Status = domain.ExpenseStatusPaid
	return nil
}

func (t *memTx) CountUnpaidExpenses(ctx context.Context, eventID string) (int, error) {
	count := 0
	for _, x := range t.s.expenses {
		if x.EventID == eventID && !x.IsPaid {
			count++
		}
	}
	return count, nil
}

func (t *memTx) FinishEvent(ctx context.Context, eventID string) error {
	t.s.events[eventID].Status = domain.EventStatusFinished
	return nil
}
