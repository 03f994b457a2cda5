package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
)

// DefaultIdleThreshold is the idle gap after which a new epoch starts.
const DefaultIdleThreshold = 30 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access. It applies the per-turn mutation
// policy (request counter, epoch tracking) and serializes turns of the same
// conversation with reference-counted per-key locks, so a violated upstream
// ordering guarantee cannot race two renders on one conversation.
type Manager struct {
	store         ports.SessionStore
	idleThreshold time.Duration
	logger        *slog.Logger
	now           func() time.Time

	mu    sync.Mutex
	locks map[string]*lockEntry
}

// Option configures the Manager.
type Option func(*Manager)

// WithIdleThreshold overrides the epoch idle threshold.
func WithIdleThreshold(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleThreshold = d
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session Manager on top of a store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		idleThreshold: DefaultIdleThreshold,
		logger:        logging.NewNop(),
		now:           time.Now,
		locks:         make(map[string]*lockEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IdleThreshold returns the configured epoch idle threshold.
func (m *Manager) IdleThreshold() time.Duration {
	return m.idleThreshold
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for the conversation key.
func (m *Manager) WithLock(key string, fn func() error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	return fn()
}

// Touch loads the session for a conversation key and applies the per-turn
// mutation: counter increment, identity refresh, inbound message tracking
// and the epoch policy. The mutated session is persisted before returning.
//
// Touch never fails: store errors are logged and the turn proceeds with an
// in-memory session so the event still reaches its scene handler.
func (m *Manager) Touch(ctx context.Context, key string, peer domain.Peer, inboundMessageID int) *domain.Session {
	sess, err := m.store.Get(ctx, key)
	if err != nil {
		if err != domain.ErrSessionNotFound {
			m.logger.Error("failed to load session, using defaults", "key", key, "err", err)
		}
		sess = domain.NewSession(peer)
	}

	now := m.now()

	sess.Count++
	sess.Username = peer.Username
	sess.UserID = peer.UserID
	sess.ChatID = peer.ChatID
	if sess.SentMessageIDs == nil {
		sess.SentMessageIDs = []int{}
	}
	if inboundMessageID != 0 {
		sess.SentMessageIDs = append(sess.SentMessageIDs, inboundMessageID)
	}

	// Epoch policy: a fresh conversation or an idle gap beyond the threshold
	// starts a new epoch.
	if sess.LastRequestDate.IsZero() || now.Sub(sess.LastRequestDate) > m.idleThreshold {
		sess.SessionsCount++
	}
	sess.LastRequestDate = now

	m.Persist(ctx, key, sess)
	return sess
}

// Persist writes the session back to the store, logging failures instead of
// propagating them.
func (m *Manager) Persist(ctx context.Context, key string, sess *domain.Session) {
	if err := m.store.Set(ctx, key, sess); err != nil {
		m.logger.Error("failed to persist session", "key", key, "err", err)
	}
}

// Stats aggregates stored sessions for the privileged /stats command.
type Stats struct {
	UniqueUsers   int
	TotalRequests int
	LastSession   *domain.Session
}

// Stats computes aggregate session statistics.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{UniqueUsers: len(records)}
	for _, rec := range records {
		stats.TotalRequests += rec.Session.Count
		if stats.LastSession == nil || rec.Session.LastRequestDate.After(stats.LastSession.LastRequestDate) {
			stats.LastSession = rec.Session
		}
	}
	return stats, nil
}

// ActiveSessions returns sessions whose last request falls within the idle
// threshold, most recent first.
func (m *Manager) ActiveSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := m.now()
	active := records[:0]
	for _, rec := range records {
		if rec.Session.LastRequestDate.IsZero() {
			continue
		}
		if now.Sub(rec.Session.LastRequestDate) < m.idleThreshold {
			active = append(active, rec)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].Session.LastRequestDate.After(active[j].Session.LastRequestDate)
	})
	return active, nil
}

// AllSessions returns every stored session, most recent first.
func (m *Manager) AllSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Session.LastRequestDate.After(records[j].Session.LastRequestDate)
	})
	return records, nil
}
