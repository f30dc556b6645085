package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
)

type friendRepository struct {
	db *sql.DB
}

func NewFriendRepository(db *sql.DB) repository.FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) AddPair(ctx context.Context, userID, friendID string) (bool, error) {
	query := `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2), ($2, $1) ON CONFLICT DO NOTHING`
	logger.DatabaseCall("insert", query, "userID", userID, "friendID", friendID)

	res, err := r.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		logger.DatabaseResult("insert", 0, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	logger.DatabaseResult("insert", n, nil)
	return n > 0, nil
}

func (r *friendRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY created_at, friend_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
