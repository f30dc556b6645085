package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
)

type expenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	logger.EnterMethod("expenseRepository.Create", "eventID", expense.EventID, "expenseID", expense.ID, "shares", len(expense.Shares))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("expenseRepository.Create", err, "expenseID", expense.ID)
		return err
	}
	defer rollback(tx, "expenseRepository.Create")

	// Holding the event row in share mode keeps a concurrent lock from
	// slipping in between the status check and the insert.
	var status domain.EventStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM events WHERE event_id = $1 FOR SHARE`, expense.EventID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("event", expense.EventID)
	}
	if err != nil {
		logger.ExitMethodWithError("expenseRepository.Create", err, "expenseID", expense.ID)
		return err
	}
	if status != domain.EventStatusOpen {
		err := &domain.ConflictError{Reason: fmt.Sprintf("event %s is %s", expense.EventID, status)}
		logger.ExitMethodWithError("expenseRepository.Create", err, "expenseID", expense.ID)
		return err
	}

	query := `INSERT INTO expenses (expense_id, event_id, name, amount, paid_by, status, is_paid)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	logger.DatabaseCall("insert", query, "expenseID", expense.ID)
	if err := tx.QueryRowContext(ctx, query, expense.ID, expense.EventID, expense.Name, expense.Amount,
		expense.PayerID, expense.Status, expense.IsPaid).Scan(&expense.CreatedAt); err != nil {
		logger.ExitMethodWithError("expenseRepository.Create", err, "expenseID", expense.ID)
		return err
	}

	usageQuery := `INSERT INTO expense_usages (event_id, expense_id, user_id, is_paid) VALUES ($1, $2, $3, FALSE)`
	for _, share := range expense.Shares {
		if _, err := tx.ExecContext(ctx, usageQuery, expense.EventID, expense.ID, share.UserID); err != nil {
			logger.ExitMethodWithError("expenseRepository.Create", err, "expenseID", expense.ID, "userID", share.UserID)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("expenseRepository.Create", err, "expenseID", expense.ID)
		return err
	}

	logger.ExitMethod("expenseRepository.Create", "expenseID", expense.ID)
	return nil
}

// ListByEvent returns the expenses of an event in creation order, each with
// its share rows.
func (r *expenseRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Expense, error) {
	logger.EnterMethod("expenseRepository.ListByEvent", "eventID", eventID)

	query := `
		SELECT x.expense_id, x.event_id, x.name, x.amount, x.paid_by, x.status, x.is_paid, x.created_at,
		       u.user_id, u.is_paid
		FROM expenses x
		LEFT JOIN expense_usages u ON u.expense_id = x.expense_id AND u.event_id = x.event_id
		WHERE x.event_id = $1
		ORDER BY x.created_at, x.expense_id, u.user_id
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		logger.ExitMethodWithError("expenseRepository.ListByEvent", err, "eventID", eventID)
		return nil, err
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	index := map[string]int{}
	for rows.Next() {
		var x domain.Expense
		var userID sql.NullString
		var usagePaid sql.NullBool
		if err := rows.Scan(&x.ID, &x.EventID, &x.Name, &x.Amount, &x.PayerID, &x.Status, &x.IsPaid, &x.CreatedAt,
			&userID, &usagePaid); err != nil {
			logger.ExitMethodWithError("expenseRepository.ListByEvent", err, "eventID", eventID)
			return nil, err
		}
		i, ok := index[x.ID]
		if !ok {
			x.Shares = []domain.ExpenseUsage{}
			expenses = append(expenses, x)
			i = len(expenses) - 1
			index[x.ID] = i
		}
		if userID.Valid {
			expenses[i].Shares = append(expenses[i].Shares, domain.ExpenseUsage{
				EventID:   x.EventID,
				ExpenseID: x.ID,
				UserID:    userID.String,
				IsPaid:    usagePaid.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("expenseRepository.ListByEvent", "eventID", eventID, "count", len(expenses))
	return expenses, nil
}

// ListUnpaidSharesInLockedEvents returns every outstanding beneficiary share
// of a LOCKED event. The payer's own share is never outstanding.
func (r *expenseRepository) ListUnpaidSharesInLockedEvents(ctx context.Context) ([]domain.UnpaidShare, error) {
	logger.EnterMethod("expenseRepository.ListUnpaidSharesInLockedEvents")

	query := `
		SELECT e.event_id, e.name, x.expense_id, x.name, u.user_id, x.amount,
		       (SELECT COUNT(*) FROM expense_usages c WHERE c.event_id = x.event_id AND c.expense_id = x.expense_id)
		FROM expense_usages u
		JOIN expenses x ON x.expense_id = u.expense_id AND x.event_id = u.event_id
		JOIN events e ON e.event_id = u.event_id
		WHERE e.status = $1 AND u.is_paid = FALSE AND u.user_id <> x.paid_by
		ORDER BY u.user_id, e.event_id, x.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, domain.EventStatusLocked)
	if err != nil {
		logger.ExitMethodWithError("expenseRepository.ListUnpaidSharesInLockedEvents", err)
		return nil, err
	}
	defer rows.Close()

	shares := []domain.UnpaidShare{}
	for rows.Next() {
		var s domain.UnpaidShare
		var amount decimal.Decimal
		var count int64
		if err := rows.Scan(&s.EventID, &s.EventName, &s.ExpenseID, &s.ExpenseName, &s.UserID, &amount, &count); err != nil {
			logger.ExitMethodWithError("expenseRepository.ListUnpaidSharesInLockedEvents", err)
			return nil, err
		}
		if count > 0 {
			s.Share = amount.Div(decimal.NewFromInt(count))
		}
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("expenseRepository.ListUnpaidSharesInLockedEvents", "count", len(shares))
	return shares, nil
}
