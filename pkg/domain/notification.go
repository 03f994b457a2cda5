package domain

import "time"

// Notification is a queued broadcast message. Once pulled from the store it
// is marked handled and never redelivered, even if the fan-out partially
// fails (at-most-once delivery attempt).
type Notification struct {
	ID              string    `json:"id"`
	Message         string    `json:"message"`
	WasHandled      bool      `json:"wasHandled"`
	ActiveUsersOnly bool      `json:"activeUsersOnly"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Feedback is a free-text message left by a user through the feedback scene.
type Feedback struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
