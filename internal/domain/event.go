package domain

import "time"

type EventStatus string

const (
	EventStatusOpen     EventStatus = "OPEN"
	EventStatusLocked   EventStatus = "LOCKED"
	EventStatusFinished EventStatus = "FINISHED"
)

// rank orders statuses along the only legal direction of travel.
func (s EventStatus) rank() int {
	switch s {
	case EventStatusOpen:
		return 0
	case EventStatusLocked:
		return 1
	case EventStatusFinished:
		return 2
	}
	return -1
}

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	return s.rank() >= 0
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle
// monotonic. Staying in place is allowed.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

type Event struct {
	ID           string      `json:"event_id"`
	OwnerID      string      `json:"owner_id"`
	Name         string      `json:"name"`
	Status       EventStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	Participants []string    `json:"participants"`
}

// IsMember reports whether userID owns the event or is listed as a participant.
func (e *Event) IsMember(userID string) bool {
	if e.OwnerID == userID {
		return true
	}
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type Participant struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// EventDetails is an event together with its expenses and their shares.
type EventDetails struct {
	Event    Event     `json:"event"`
	Expenses []Expense `json:"expenses"`
}
