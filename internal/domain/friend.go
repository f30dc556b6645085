package domain

import "time"

// Friendship is one direction of a symmetric friend relation.
type Friendship struct {
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}
