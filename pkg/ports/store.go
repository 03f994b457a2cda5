package ports

import (
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// SessionStore persists one JSON-serializable session record per
// conversation key. Writes are last-write-wins; no versioning.
type SessionStore interface {
	// Get retrieves the session for a conversation key.
	// Returns domain.ErrSessionNotFound if the key does not exist.
	Get(ctx context.Context, key string) (*domain.Session, error)

	// Set overwrites the session for a conversation key.
	Set(ctx context.Context, key string, session *domain.Session) error

	// Delete removes the session for a conversation key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error

	// List enumerates all stored sessions.
	List(ctx context.Context) ([]domain.SessionRecord, error)
}

// NotificationStore is the queue of pending broadcast messages.
type NotificationStore interface {
	// Enqueue adds a notification to the queue.
	Enqueue(ctx context.Context, n *domain.Notification) error

	// Pull removes the oldest unhandled notification from the queue and
	// marks it handled in the same step, so a later Pull can never return
	// it again. Returns nil when the queue is empty.
	Pull(ctx context.Context) (*domain.Notification, error)
}

// FeedbackStore persists user feedback records.
type FeedbackStore interface {
	Add(ctx context.Context, fb *domain.Feedback) error
}

// ObjectStore retrieves binary objects (view images) by name.
// A missing object yields domain.ErrNotFound.
type ObjectStore interface {
	GetObject(ctx context.Context, name string) ([]byte, error)
}

// ViewStore resolves view content records by code.
type ViewStore interface {
	GetView(ctx context.Context, code domain.ViewCode) (domain.View, error)
}
