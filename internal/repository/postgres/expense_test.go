package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbill-backend/internal/domain"
)

func newExpense() *domain.Expense {
	return &domain.Expense{
		ID:      "x1",
		EventID: "ev1",
		Name:    "Hotel",
		Amount:  decimal.NewFromInt(100),
		PayerID: "A",
		Status:  domain.ExpenseStatusPending,
		Shares: []domain.ExpenseUsage{
			{EventID: "ev1", ExpenseID: "x1", UserID: "A"},
			{EventID: "ev1", ExpenseID: "x1", UserID: "B"},
		},
	}
}

func TestExpenseRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		m, done := newMock(t)
		defer done()

		m.mock.ExpectBegin()
		m.mock.ExpectQuery("SELECT status FROM events WHERE event_id = \\$1 FOR SHARE").
			WithArgs("ev1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("OPEN"))
		m.mock.ExpectQuery("INSERT INTO expenses").
			WithArgs("x1", "ev1", "Hotel", "100", "A", "PENDING", false).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		m.mock.ExpectExec("INSERT INTO expense_usages").WithArgs("ev1", "x1", "A").WillReturnResult(sqlmock.NewResult(0, 1))
		m.mock.ExpectExec("INSERT INTO expense_usages").WithArgs("ev1", "x1", "B").WillReturnResult(sqlmock.NewResult(0, 1))
		m.mock.ExpectCommit()

		require.NoError(t, m.store.ExpenseRepository.Create(ctx, newExpense()))
	})

	t.Run("LockedEvent", func(t *testing.T) {
		m, done := newMock(t)
		defer done()

		m.mock.ExpectBegin()
		m.mock.ExpectQuery("SELECT status FROM events").
			WithArgs("ev1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("LOCKED"))
		m.mock.ExpectRollback()

		err := m.store.ExpenseRepository.Create(ctx, newExpense())
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		m, done := newMock(t)
		defer done()

		m.mock.ExpectBegin()
		m.mock.ExpectQuery("SELECT status FROM events").
			WithArgs("ev1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}))
		m.mock.ExpectRollback()

		err := m.store.ExpenseRepository.Create(ctx, newExpense())
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestExpenseRepository_ListByEvent(t *testing.T) {
	m, done := newMock(t)
	defer done()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"expense_id", "event_id", "name", "amount", "paid_by", "status", "is_paid", "created_at", "user_id", "is_paid"}).
		AddRow("x1", "ev1", "Hotel", "100.00", "A", "PENDING", false, now, "A", false).
		AddRow("x1", "ev1", "Hotel", "100.00", "A", "PENDING", false, now, "B", true).
		AddRow("x2", "ev1", "Taxi", "30.00", "B", "PENDING", false, now, nil, nil)
	m.mock.ExpectQuery("SELECT (.+) FROM expenses x").WithArgs("ev1").WillReturnRows(rows)

	expenses, err := m.store.ExpenseRepository.ListByEvent(context.Background(), "ev1")
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(expenses[0].Amount))
	assert.Equal(t, []string{"A", "B"}, expenses[0].Beneficiaries())
	assert.True(t, expenses[0].Shares[1].IsPaid)
	assert.Empty(t, expenses[1].Shares)
}

func TestExpenseRepository_ListUnpaidSharesInLockedEvents(t *testing.T) {
	m, done := newMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"event_id", "name", "expense_id", "name", "user_id", "amount", "count"}).
		AddRow("ev1", "Trip", "x1", "Hotel", "B", "100.00", 2).
		AddRow("ev1", "Trip", "x2", "Fuel", "C", "10.00", 3)
	m.mock.ExpectQuery("SELECT (.+) FROM expense_usages u").WithArgs("LOCKED").WillReturnRows(rows)

	shares, err := m.store.ExpenseRepository.ListUnpaidSharesInLockedEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, "50", shares[0].Share.String())
	assert.Equal(t, "3.33", shares[1].Share.StringFixed(2))
}
