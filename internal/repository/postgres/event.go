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

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	logger.EnterMethod("eventRepository.Create", "eventID", event.ID, "participants", len(event.Participants))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("eventRepository.Create", err, "eventID", event.ID)
		return err
	}
	defer rollback(tx, "eventRepository.Create")

	query := `INSERT INTO events (event_id, owner_id, name, status) VALUES ($1, $2, $3, $4) RETURNING created_at`
	logger.DatabaseCall("insert", query, "eventID", event.ID)
	if err := tx.QueryRowContext(ctx, query, event.ID, event.OwnerID, event.Name, event.Status).Scan(&event.CreatedAt); err != nil {
		logger.ExitMethodWithError("eventRepository.Create", err, "eventID", event.ID)
		return err
	}

	participantQuery := `INSERT INTO participants (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, userID := range event.Participants {
		if _, err := tx.ExecContext(ctx, participantQuery, event.ID, userID); err != nil {
			logger.ExitMethodWithError("eventRepository.Create", err, "eventID", event.ID, "userID", userID)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("eventRepository.Create", err, "eventID", event.ID)
		return err
	}

	logger.ExitMethod("eventRepository.Create", "eventID", event.ID)
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	logger.EnterMethod("eventRepository.GetByID", "eventID", id)

	event := &domain.Event{}
	query := `SELECT event_id, owner_id, name, status, created_at FROM events WHERE event_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&event.ID, &event.OwnerID, &event.Name, &event.Status, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("event", id)
	}
	if err != nil {
		logger.ExitMethodWithError("eventRepository.GetByID", err, "eventID", id)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM participants WHERE event_id = $1 ORDER BY user_id`, id)
	if err != nil {
		logger.ExitMethodWithError("eventRepository.GetByID", err, "eventID", id)
		return nil, err
	}
	defer rows.Close()

	event.Participants = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		event.Participants = append(event.Participants, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("eventRepository.GetByID", "eventID", id, "participants", len(event.Participants))
	return event, nil
}

// ListByUser returns events the user owns or participates in, newest first.
// Each event carries its full participant list.
func (r *eventRepository) ListByUser(ctx context.Context, userID string) ([]domain.Event, error) {
	logger.EnterMethod("eventRepository.ListByUser", "userID", userID)

	query := `
		SELECT e.event_id, e.owner_id, e.name, e.status, e.created_at, p.user_id
		FROM events e
		LEFT JOIN participants p ON p.event_id = e.event_id
		WHERE e.owner_id = $1
		   OR e.event_id IN (SELECT event_id FROM participants WHERE user_id = $1)
		ORDER BY e.created_at DESC, e.event_id, p.user_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.ExitMethodWithError("eventRepository.ListByUser", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	index := map[string]int{}
	for rows.Next() {
		var e domain.Event
		var participant sql.NullString
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Status, &e.CreatedAt, &participant); err != nil {
			logger.ExitMethodWithError("eventRepository.ListByUser", err, "userID", userID)
			return nil, err
		}
		i, ok := index[e.ID]
		if !ok {
			e.Participants = []string{}
			events = append(events, e)
			i = len(events) - 1
			index[e.ID] = i
		}
		if participant.Valid {
			events[i].Participants = append(events[i].Participants, participant.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("eventRepository.ListByUser", "userID", userID, "count", len(events))
	return events, nil
}

func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	query := `INSERT INTO participants (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	logger.DatabaseCall("insert", query, "eventID", eventID, "userID", userID)

	res, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		logger.DatabaseResult("insert", 0, err)
		if isForeignKeyViolation(err) {
			return false, domain.NewNotFoundError("event", eventID)
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	logger.DatabaseResult("insert", n, nil)
	return n > 0, nil
}

func (r *eventRepository) Lock(ctx context.Context, eventID string) (bool, error) {
	query := `UPDATE events SET status = $1 WHERE event_id = $2 AND status = $3`
	logger.DatabaseCall("update", query, "eventID", eventID)

	res, err := r.db.ExecContext(ctx, query, domain.EventStatusLocked, eventID, domain.EventStatusOpen)
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
