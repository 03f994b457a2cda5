package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// NotificationStore keeps the pending queue in a ZSET scored by
// creation time, so ZPOPMIN yields the oldest entry atomically.
// Handled notifications move to a list for auditing.
type NotificationStore struct {
	client *backend.Client
	prefix string
}

// NewNotificationStore creates a notification store from an existing client.
func NewNotificationStore(client *backend.Client, opts ...func(*NotificationStore)) *NotificationStore {
	store := &NotificationStore{
		client: client,
		prefix: "gamebot:notifications:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// WithNotificationPrefix sets the key prefix for the queue.
func WithNotificationPrefix(prefix string) func(*NotificationStore) {
	return func(s *NotificationStore) {
		s.prefix = prefix
	}
}

func (s *NotificationStore) pendingKey() string { return s.prefix + "pending" }
func (s *NotificationStore) handledKey() string { return s.prefix + "handled" }

// Enqueue adds a notification to the pending queue.
func (s *NotificationStore) Enqueue(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = s.client.ZAdd(ctx, s.pendingKey(), backend.Z{
		Score:  float64(n.CreatedAt.UnixNano()),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// Pull pops the oldest pending notification and records it as handled.
// Returns nil when the queue is empty.
func (s *NotificationStore) Pull(ctx context.Context) (*domain.Notification, error) {
	popped, err := s.client.ZPopMin(ctx, s.pendingKey(), 1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to pop notification: %w", err)
	}
	if len(popped) == 0 {
		return nil, nil
	}

	raw, ok := popped[0].Member.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected member type %T in notification queue", popped[0].Member)
	}

	var n domain.Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	n.WasHandled = true

	data, err := json.Marshal(&n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal handled notification: %w", err)
	}
	if err := s.client.RPush(ctx, s.handledKey(), data).Err(); err != nil {
		return nil, fmt.Errorf("failed to record handled notification: %w", err)
	}
	return &n, nil
}
