package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
)

type settlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) repository.SettlementRepository {
	return &settlementRepository{db: db}
}

// WithinTx runs fn in a single transaction and commits when fn returns nil.
func (r *settlementRepository) WithinTx(ctx context.Context, fn func(tx repository.SettlementTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer rollback(tx, "settlementRepository.WithinTx")

	if err := fn(&settlementTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement transaction: %w", err)
	}
	return nil
}

type settlementTx struct {
	tx *sql.Tx
}

// LockEvent takes the event row lock. Every other settlement of the same
// event waits here until this transaction ends.
func (s *settlementTx) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `SELECT event_id, owner_id, name, status, created_at FROM events WHERE event_id = $1 FOR UPDATE`
	logger.DatabaseCall("select", query, "eventID", eventID)

	event := &domain.Event{}
	err := s.tx.QueryRowContext(ctx, query, eventID).Scan(&event.ID, &event.OwnerID, &event.Name, &event.Status, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("event", eventID)
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *settlementTx) GetExpense(ctx context.Context, eventID, expenseID string) (*domain.Expense, error) {
	query := `SELECT expense_id, event_id, name, amount, paid_by, status, is_paid, created_at
	          FROM expenses WHERE event_id = $1 AND expense_id = $2`

	x := &domain.Expense{}
	err := s.tx.QueryRowContext(ctx, query, eventID, expenseID).Scan(&x.ID, &x.EventID, &x.Name, &x.Amount,
		&x.PayerID, &x.Status, &x.IsPaid, &x.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("expense", expenseID)
	}
	if err != nil {
		return nil, err
	}
	return x, nil
}

// MarkSharePaid reports whether the caller had a share row on the expense.
// Paying an already paid share still reports true.
func (s *settlementTx) MarkSharePaid(ctx context.Context, eventID, expenseID, userID string) (bool, error) {
	query := `UPDATE expense_usages SET is_paid = TRUE WHERE event_id = $1 AND expense_id = $2 AND user_id = $3`
	logger.DatabaseCall("update", query, "eventID", eventID, "expenseID", expenseID, "userID", userID)

	res, err := s.tx.ExecContext(ctx, query, eventID, expenseID, userID)
	if err != nil {
		logger.DatabaseResult("update", 0, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	logger.DatabaseResult("update", n, nil)
	return n > 0, nil
}

func (s *settlementTx) CountUnpaidShares(ctx context.Context, eventID, expenseID, excludeUserID string) (int, error) {
	query := `SELECT COUNT(*) FROM expense_usages
	          WHERE event_id = $1 AND expense_id = $2 AND is_paid = FALSE AND user_id <> $3`
	var count int
	if err := s.tx.QueryRowContext(ctx, query, eventID, expenseID, excludeUserID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *settlementTx) MarkExpensePaid(ctx context.Context, eventID, expenseID string) error {
	query := `UPDATE expenses SET is_paid = TRUE, status = $1 WHERE event_id = $2 AND expense_id = $3`
	logger.DatabaseCall("update", query, "eventID", eventID, "expenseID", expenseID)
	_, err := s.tx.ExecContext(ctx, query, domain.ExpenseStatusPaid, eventID, expenseID)
	return err
}

func (s *settlementTx) CountUnpaidExpenses(ctx context.Context, eventID string) (int, error) {
	var count int
	err := s.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE event_id = $1 AND is_paid = FALSE`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *settlementTx) FinishEvent(ctx context.Context, eventID string) error {
	query := `UPDATE events SET status = $1 WHERE event_id = $2 AND status <> $1`
	logger.DatabaseCall("update", query, "eventID", eventID)
	_, err := s.tx.ExecContext(ctx, query, domain.EventStatusFinished, eventID)
	return err
}
