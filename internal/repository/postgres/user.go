package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (user_id, email, display_name, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`
	logger.DatabaseCall("insert", query, "userID", u.ID)

	err := r.db.QueryRowContext(ctx, query, u.ID, u.Email, u.DisplayName, u.PasswordHash).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return &domain.ConflictError{Reason: "email already registered", Duplicate: true}
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT user_id, email, display_name, password_hash, created_at FROM users WHERE user_id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT user_id, email, display_name, password_hash, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query, key string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user", key)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListByIDs returns the users that exist among ids. Unknown ids are skipped.
func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	query := `SELECT user_id, email, display_name, password_hash, created_at FROM users WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
