package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// FeedbackStore appends user feedback to a Redis list.
type FeedbackStore struct {
	client *backend.Client
	key    string
}

// NewFeedbackStore creates a feedback store from an existing client.
func NewFeedbackStore(client *backend.Client) *FeedbackStore {
	return &FeedbackStore{
		client: client,
		key:    "gamebot:feedback",
	}
}

// Add appends one feedback entry.
func (s *FeedbackStore) Add(ctx context.Context, fb *domain.Feedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}

// All returns every stored feedback entry, oldest first.
func (s *FeedbackStore) All(ctx context.Context) ([]*domain.Feedback, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback: %w", err)
	}

	out := make([]*domain.Feedback, 0, len(raw))
	for _, item := range raw {
		var fb domain.Feedback
		if err := json.Unmarshal([]byte(item), &fb); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
		}
		out = append(out, &fb)
	}
	return out, nil
}
