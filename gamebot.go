// Package gamebot assembles the conversational game-catalog bot: session
// management, scene routing, the catalog scenes and the notification
// broadcaster, behind one Engine with functional options.
package gamebot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gamebase54/gamebot/internal/adapters/memory"
	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/internal/scenes"
	"github.com/gamebase54/gamebot/internal/views"
	"github.com/gamebase54/gamebot/pkg/broadcast"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
	"github.com/gamebase54/gamebot/pkg/scene"
	"github.com/gamebase54/gamebot/pkg/search"
	"github.com/gamebase54/gamebot/pkg/session"
)

// Engine is the high-level entry point: it owns the router, the session
// manager and the broadcaster, and consumes an update source.
type Engine struct {
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	transport ports.ChatTransport

	sessionStore      ports.SessionStore
	notificationStore ports.NotificationStore
	feedbackStore     ports.FeedbackStore
	viewStore         ports.ViewStore
	objectStore       ports.ObjectStore
	catalog           ports.Catalog
	ranker            *search.Ranker[domain.Game]

	idleThreshold     time.Duration
	broadcastInterval time.Duration
	newsURL           string
	adminUserIDs      []int64
	adminChatIDs      []int64

	sessions    *session.Manager
	router      *scene.Router
	broadcaster *broadcast.Broadcaster
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSessionStore swaps the in-memory default for a durable store.
func WithSessionStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.sessionStore = store
	}
}

// WithNotificationStore swaps the in-memory notification queue.
func WithNotificationStore(store ports.NotificationStore) Option {
	return func(e *Engine) {
		e.notificationStore = store
	}
}

// WithFeedbackStore swaps the in-memory feedback store.
func WithFeedbackStore(store ports.FeedbackStore) Option {
	return func(e *Engine) {
		e.feedbackStore = store
	}
}

// WithViews provides the display content records.
func WithViews(store ports.ViewStore) Option {
	return func(e *Engine) {
		e.viewStore = store
	}
}

// WithObjects provides the image object store backing view images.
func WithObjects(store ports.ObjectStore) Option {
	return func(e *Engine) {
		e.objectStore = store
	}
}

// WithRanker overrides the search ranker.
func WithRanker(r *search.Ranker[domain.Game]) Option {
	return func(e *Engine) {
		e.ranker = r
	}
}

// WithIdleThreshold overrides the session epoch idle threshold.
func WithIdleThreshold(d time.Duration) Option {
	return func(e *Engine) {
		e.idleThreshold = d
	}
}

// WithBroadcastInterval overrides the notification polling interval.
func WithBroadcastInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.broadcastInterval = d
	}
}

// WithNewsURL adds a channel link button to the category root page.
func WithNewsURL(url string) Option {
	return func(e *Engine) {
		e.newsURL = url
	}
}

// WithAdmins grants the listed user ids access to /stats and makes
// their chats receive startup and shutdown notices. For the direct
// chats the bot serves, chat id equals user id.
func WithAdmins(userIDs ...int64) Option {
	return func(e *Engine) {
		e.adminUserIDs = userIDs
		e.adminChatIDs = userIDs
	}
}

// New assembles an Engine over a chat transport and a catalog.
func New(transport ports.ChatTransport, catalog ports.Catalog, opts ...Option) (*Engine, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	e := &Engine{
		logger:            logging.NewNop(),
		transport:         transport,
		catalog:           catalog,
		idleThreshold:     session.DefaultIdleThreshold,
		broadcastInterval: broadcast.DefaultInterval,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.sessionStore == nil {
		e.sessionStore = memory.NewSessionStore()
	}
	if e.notificationStore == nil {
		e.notificationStore = memory.NewNotificationStore()
	}
	if e.feedbackStore == nil {
		e.feedbackStore = memory.NewFeedbackStore()
	}
	if e.viewStore == nil {
		e.viewStore = views.NewStore(nil)
	}
	if e.ranker == nil {
		e.ranker = search.NewRanker(func(g domain.Game) string { return g.Name })
	}

	e.sessions = session.NewManager(e.sessionStore,
		session.WithIdleThreshold(e.idleThreshold),
		session.WithLogger(e.logger))

	e.router = scene.NewRouter(e.sessions, e.transport,
		scene.WithLogger(e.logger),
		scene.WithLifecycleHooks(e.hooks))

	scenes.Register(e.router, scenes.Deps{
		Catalog:  e.catalog,
		Views:    views.NewReplyBuilder(e.viewStore, e.objectStore, e.logger),
		Feedback: e.feedbackStore,
		Search:   e.ranker,
		Logger:   e.logger,
		NewsURL:  e.newsURL,
	})

	e.router.RegisterCommand("start", e.handleStart)
	e.router.RegisterCommand("stats", e.handleStats)
	e.router.RegisterCommand("help", e.handleHelp)

	e.broadcaster = broadcast.New(e.notificationStore, e.sessions, e.transport,
		broadcast.WithInterval(e.broadcastInterval),
		broadcast.WithLogger(e.logger),
		broadcast.WithLifecycleHooks(e.hooks))

	return e, nil
}

// Router exposes the scene router, mostly for registering extra
// commands.
func (e *Engine) Router() *scene.Router {
	return e.router
}

// Sessions exposes the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Broadcaster exposes the notification broadcaster.
func (e *Engine) Broadcaster() *broadcast.Broadcaster {
	return e.broadcaster
}

// HandleUpdate dispatches one inbound event.
func (e *Engine) HandleUpdate(ctx context.Context, u domain.Update) error {
	return e.router.Dispatch(ctx, u)
}

// Notify queues a broadcast message for the next broadcaster tick.
func (e *Engine) Notify(ctx context.Context, message string, activeUsersOnly bool) error {
	return e.notificationStore.Enqueue(ctx, &domain.Notification{
		ID:              uuid.NewString(),
		Message:         message,
		ActiveUsersOnly: activeUsersOnly,
		CreatedAt:       time.Now(),
	})
}

// Run consumes the update source until ctx is cancelled, ticking the
// broadcaster alongside. Dispatch errors are logged per turn, never
// fatal.
func (e *Engine) Run(ctx context.Context, source ports.UpdateSource) error {
	e.notifyAdmins(ctx, "Bot started.")
	defer e.notifyAdmins(context.WithoutCancel(ctx), "Bot shutting down.")

	go func() {
		if err := e.broadcaster.Run(ctx); err != nil && ctx.Err() == nil {
			e.logger.Error("broadcaster stopped", "err", err)
		}
	}()

	updates := source.Updates(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := e.HandleUpdate(ctx, u); err != nil {
				e.logger.Error("update dispatch failed", "key", u.ConversationKey(), "err", err)
			}
		}
	}
}

func (e *Engine) notifyAdmins(ctx context.Context, text string) {
	for _, chatID := range e.adminChatIDs {
		if _, err := e.transport.SendMessage(ctx, chatID, text, nil); err != nil {
			e.logger.Warn("admin notice failed", "chatId", chatID, "err", err)
		}
	}
}

// handleStart clears the tracked chat history and opens the root menu.
func (e *Engine) handleStart(ctx context.Context, t *scene.Turn, args string) error {
	if ids := t.Session.SentMessageIDs; len(ids) > 0 {
		if err := e.transport.DeleteMessages(ctx, t.ChatID(), ids); err != nil {
			t.Logger().Debug("failed to clear chat history", "err", err)
		}
		t.Session.SentMessageIDs = nil
	}
	return t.Enter(ctx, scenes.IDGreetings, nil)
}

func (e *Engine) isAdmin(userID int64) bool {
	for _, id := range e.adminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// handleStats reports usage statistics to allowlisted users. Others get
// no reply at all.
func (e *Engine) handleStats(ctx context.Context, t *scene.Turn, args string) error {
	if !e.isAdmin(t.Peer.UserID) {
		t.Logger().Debug("stats denied", "user_id", t.Peer.UserID)
		return nil
	}

	stats, err := e.sessions.Stats(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Users: %d\nRequests: %d", stats.UniqueUsers, stats.TotalRequests)
	if stats.LastSession != nil {
		text += fmt.Sprintf("\nLast activity: %s at %s",
			stats.LastSession.Username,
			stats.LastSession.LastRequestDate.Format(time.RFC3339))
	}

	_, err = e.transport.SendMessage(ctx, t.ChatID(), text, nil)
	return err
}

func (e *Engine) handleHelp(ctx context.Context, t *scene.Turn, args string) error {
	_, err := e.transport.SendMessage(ctx, t.ChatID(),
		"/start — open the game menu\nType a game name at any time to search.", nil)
	return err
}
