package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/pkg/domain"
)

// Webhook receives Bot API updates over HTTP instead of long polling.
// It implements ports.UpdateSource: the handler pushes normalized
// updates into the channel Updates returns.
type Webhook struct {
	secret string
	logger *slog.Logger
	out    chan domain.Update
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewWebhook creates a webhook source. secret is the path token
// Telegram was given with setWebhook; requests with a different token
// are rejected.
func NewWebhook(secret string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Webhook{
		secret: secret,
		logger: logger,
		out:    make(chan domain.Update, 64),
		done:   make(chan struct{}),
	}
}

// Updates returns the inbound event channel. Close shuts it down.
func (w *Webhook) Updates(ctx context.Context) <-chan domain.Update {
	go func() {
		select {
		case <-ctx.Done():
			w.Close()
		case <-w.done:
		}
	}()
	return w.out
}

// Handler returns the HTTP routes serving the webhook.
func (w *Webhook) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/telegram/webhook/{secret}", w.receive)
	return r
}

func (w *Webhook) receive(rw http.ResponseWriter, req *http.Request) {
	if chi.URLParam(req, "secret") != w.secret {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	var wu wireUpdate
	if err := json.NewDecoder(req.Body).Decode(&wu); err != nil {
		http.Error(rw, "invalid update body", http.StatusBadRequest)
		return
	}

	update, ok := normalize(wu)
	if !ok {
		// Unsupported update type; acknowledge so Telegram stops retrying.
		rw.WriteHeader(http.StatusOK)
		return
	}

	if !w.push(update) {
		http.Error(rw, "shutting down", http.StatusServiceUnavailable)
		return
	}
	rw.WriteHeader(http.StatusOK)
}

// push enqueues an update unless the webhook is closed. Holding the lock
// across the send keeps it mutually exclusive with Close, so a late
// delivery can never hit a closed channel.
func (w *Webhook) push(update domain.Update) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	select {
	case w.out <- update:
	default:
		// Queue full. Drop rather than block Telegram's delivery worker.
		w.logger.Warn("webhook queue full, dropping update", "key", update.ConversationKey())
	}
	return true
}

// Close shuts the update channel down. Safe to call more than once and
// concurrently with in-flight deliveries.
func (w *Webhook) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.done)
	close(w.out)
}
