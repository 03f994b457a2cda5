// Package broadcast delivers queued notifications to bot users on a
// fixed schedule.
package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
	"github.com/gamebase54/gamebot/pkg/session"
)

// DefaultInterval is how often the broadcaster polls the queue.
const DefaultInterval = 30 * time.Second

// Broadcaster drains the notification queue one entry per tick and
// fans each notification out to known sessions.
type Broadcaster struct {
	store     ports.NotificationStore
	sessions  *session.Manager
	transport ports.ChatTransport
	interval  time.Duration
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(b *Broadcaster) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithLogger sets the broadcaster's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broadcaster) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Broadcaster) {
		b.hooks = hooks
	}
}

// New builds a Broadcaster over the given queue, session manager and
// transport.
func New(store ports.NotificationStore, sessions *session.Manager, transport ports.ChatTransport, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		store:     store,
		sessions:  sessions,
		transport: transport,
		interval:  DefaultInterval,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tick pulls at most one pending notification and delivers it. It
// returns the number of chats reached; a notification with no
// recipients is still consumed. Per-chat send failures are collected
// and joined, never aborting the remaining fan-out.
func (b *Broadcaster) Tick(ctx context.Context) (int, error) {
	note, err := b.store.Pull(ctx)
	if err != nil {
		return 0, err
	}
	if note == nil {
		return 0, nil
	}

	recipients, err := b.recipients(ctx, note)
	if err != nil {
		return 0, err
	}

	delivered := 0
	var sendErrs []error
	for _, chatID := range recipients {
		if _, err := b.transport.SendMessage(ctx, chatID, note.Message, nil); err != nil {
			b.logger.Warn("notification delivery failed", "chatId", chatID, "err", err)
			sendErrs = append(sendErrs, err)
			continue
		}
		delivered++
	}

	b.logger.Info("notification broadcast",
		"id", note.ID,
		"recipients", len(recipients),
		"delivered", delivered)
	if b.hooks.OnBroadcast != nil {
		b.hooks.OnBroadcast(ctx, &domain.BroadcastEvent{
			NotificationID: note.ID,
			Recipients:     len(recipients),
			Failed:         len(sendErrs),
		})
	}
	return delivered, errors.Join(sendErrs...)
}

// Run ticks until ctx is cancelled. Tick errors are logged, not fatal.
func (b *Broadcaster) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := b.Tick(ctx); err != nil {
				b.logger.Error("broadcast tick failed", "err", err)
			}
		}
	}
}

func (b *Broadcaster) recipients(ctx context.Context, note *domain.Notification) ([]int64, error) {
	var records []domain.SessionRecord
	var err error
	if note.ActiveUsersOnly {
		records, err = b.sessions.ActiveSessions(ctx)
	} else {
		records, err = b.sessions.AllSessions(ctx)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(records))
	chatIDs := make([]int64, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.Session.ChatID]; dup {
			continue
		}
		seen[rec.Session.ChatID] = struct{}{}
		chatIDs = append(chatIDs, rec.Session.ChatID)
	}
	return chatIDs, nil
}
