// Package memory provides in-memory store implementations, used by tests
// and single-process demo runs.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// SessionStore implements ports.SessionStore on a map. Sessions are kept as
// JSON bytes so that Get/Set round-trip exactly like a durable backend.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]byte)}
}

// Get retrieves a session by conversation key.
func (s *SessionStore) Get(ctx context.Context, key string) (*domain.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[key]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Set overwrites a session.
func (s *SessionStore) Set(ctx context.Context, key string, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[key] = data
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
	return nil
}

// List enumerates all stored sessions.
func (s *SessionStore) List(ctx context.Context) ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.SessionRecord, 0, len(s.sessions))
	for key, data := range s.sessions {
		var sess domain.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		records = append(records, domain.SessionRecord{Key: key, Session: &sess})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

// NotificationStore implements ports.NotificationStore on a slice ordered by
// creation time.
type NotificationStore struct {
	mu      sync.Mutex
	pending []*domain.Notification
	handled []*domain.Notification
}

// NewNotificationStore creates an empty in-memory notification queue.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Enqueue adds a notification to the queue.
func (s *NotificationStore) Enqueue(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *n
	s.pending = append(s.pending, &copied)
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].CreatedAt.Before(s.pending[j].CreatedAt)
	})
	return nil
}

// Pull removes the oldest pending notification, marking it handled in the
// same step. Returns nil when the queue is empty.
func (s *NotificationStore) Pull(ctx context.Context) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil, nil
	}

	n := s.pending[0]
	s.pending = s.pending[1:]
	n.WasHandled = true
	s.handled = append(s.handled, n)

	copied := *n
	return &copied, nil
}

// Handled returns the notifications pulled so far. Test helper.
func (s *NotificationStore) Handled() []*domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Notification(nil), s.handled...)
}

// FeedbackStore implements ports.FeedbackStore on a slice.
type FeedbackStore struct {
	mu      sync.Mutex
	entries []domain.Feedback
}

// NewFeedbackStore creates an empty in-memory feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// Add appends a feedback record.
func (s *FeedbackStore) Add(ctx context.Context, fb *domain.Feedback) error {
	s.mu.Lock()
	s.entries = append(s.entries, *fb)
	s.mu.Unlock()
	return nil
}

// Entries returns the collected feedback. Test helper.
func (s *FeedbackStore) Entries() []domain.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Feedback(nil), s.entries...)
}
