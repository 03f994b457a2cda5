package scene

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
	"github.com/gamebase54/gamebot/pkg/session"
)

// CommandHandler processes a slash command before scene dispatch.
type CommandHandler func(ctx context.Context, t *Turn, args string) error

// Router maps scene identifiers to scene factories and dispatches inbound
// events to per-conversation scene instances. The session middleware runs
// before every event; its failures are logged and never block dispatch.
type Router struct {
	sessions  *session.Manager
	transport ports.ChatTransport
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	factories map[string]Factory
	commands  map[string]CommandHandler
	rootScene string

	mu     sync.Mutex
	active map[string]*activeScene
}

// activeScene is the live scene instance of one conversation.
type activeScene struct {
	id    string
	scene Scene
}

// RouterOption configures the Router.
type RouterOption func(*Router)

// WithLogger configures a logger for the Router.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) RouterOption {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// NewRouter creates a Router on top of a session manager and a transport.
func NewRouter(sessions *session.Manager, transport ports.ChatTransport, opts ...RouterOption) *Router {
	r := &Router{
		sessions:  sessions,
		transport: transport,
		logger:    logging.NewNop(),
		factories: make(map[string]Factory),
		commands:  make(map[string]CommandHandler),
		active:    make(map[string]*activeScene),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a scene factory under a unique identifier. The first
// registered scene becomes the root scene unless SetRoot overrides it.
func (r *Router) Register(sceneID string, factory Factory) {
	r.factories[sceneID] = factory
	if r.rootScene == "" {
		r.rootScene = sceneID
	}
}

// SetRoot designates the scene entered when a conversation has no active
// scene to dispatch to.
func (r *Router) SetRoot(sceneID string) {
	r.rootScene = sceneID
}

// RegisterCommand routes a slash command (without the leading slash) to a
// handler. Commands bypass the active scene.
func (r *Router) RegisterCommand(name string, handler CommandHandler) {
	r.commands[name] = handler
}

// Sessions returns the session manager backing the router.
func (r *Router) Sessions() *session.Manager {
	return r.sessions
}

// Dispatch processes one inbound event end to end: session middleware,
// command routing, scene resolution and handler invocation. Errors from a
// single turn are returned for logging but never terminate the process.
func (r *Router) Dispatch(ctx context.Context, u domain.Update) error {
	key := u.ConversationKey()

	return r.sessions.WithLock(key, func() error {
		sess := r.sessions.Touch(ctx, key, u.Peer, u.MessageID)

		t := &Turn{
			Key:     key,
			Peer:    u.Peer,
			Session: sess,
			router:  r,
			logger:  r.logger.With("key", key, "user", u.Peer.Username),
		}

		if r.hooks.OnUpdate != nil {
			r.hooks.OnUpdate(ctx, &domain.UpdateEvent{
				ConversationKey: key,
				Kind:            u.Kind,
				SceneID:         sess.SceneID,
			})
		}

		err := r.dispatch(ctx, t, u)

		// Scene transitions mutate SceneID/SceneState on the session.
		r.sessions.Persist(ctx, key, sess)
		return err
	})
}

func (r *Router) dispatch(ctx context.Context, t *Turn, u domain.Update) error {
	if u.Kind == domain.UpdateCommand {
		if handler, ok := r.commands[u.Command]; ok {
			return handler(ctx, t, u.Text)
		}
		// Unknown commands fall through to the active scene as text.
		u.Text = "/" + u.Command
	}

	active, err := r.ensureActive(ctx, t)
	if err != nil {
		return err
	}

	switch u.Kind {
	case domain.UpdateCallback:
		return active.scene.HandleAction(ctx, t, u.Action)
	default:
		return active.scene.HandleMessage(ctx, t, u.Text)
	}
}

// ensureActive resolves the conversation's live scene instance. After a
// process restart the instance is rebuilt from the scene id and state blob
// persisted in the session; a brand-new conversation enters the root scene.
func (r *Router) ensureActive(ctx context.Context, t *Turn) (*activeScene, error) {
	r.mu.Lock()
	active, ok := r.active[t.Key]
	r.mu.Unlock()
	if ok {
		return active, nil
	}

	sceneID := t.Session.SceneID
	state := any(t.Session.SceneState)
	if _, known := r.factories[sceneID]; !known {
		if r.rootScene == "" {
			return nil, domain.ErrNoActiveScene
		}
		sceneID, state = r.rootScene, nil
	}

	if err := r.enter(ctx, t, sceneID, state); err != nil {
		return nil, err
	}

	r.mu.Lock()
	active = r.active[t.Key]
	r.mu.Unlock()
	return active, nil
}

func (r *Router) enter(ctx context.Context, t *Turn, sceneID string, state any) error {
	factory, ok := r.factories[sceneID]
	if !ok {
		return domain.ErrSceneNotRegistered
	}

	raw, err := marshalState(state)
	if err != nil {
		return err
	}

	if err := r.leave(ctx, t); err != nil {
		t.logger.Error("failed to leave scene", "scene", t.Session.SceneID, "err", err)
	}

	active := &activeScene{id: sceneID, scene: factory()}
	r.mu.Lock()
	r.active[t.Key] = active
	r.mu.Unlock()

	t.Session.SceneID = sceneID
	t.Session.SceneState = raw

	t.logger.Debug("enter scene", "scene", sceneID)
	return active.scene.Enter(ctx, t)
}

// reenter re-invokes the active scene's entry handler on the same instance,
// with whatever state is currently stored for it.
func (r *Router) reenter(ctx context.Context, t *Turn) error {
	r.mu.Lock()
	active, ok := r.active[t.Key]
	r.mu.Unlock()
	if !ok {
		return domain.ErrNoActiveScene
	}

	t.logger.Debug("reenter scene", "scene", active.id)
	return active.scene.Enter(ctx, t)
}

// leave tears down the active scene, if any, and clears the session's scene
// pointer.
func (r *Router) leave(ctx context.Context, t *Turn) error {
	r.mu.Lock()
	active, ok := r.active[t.Key]
	delete(r.active, t.Key)
	r.mu.Unlock()

	t.Session.SceneID = ""
	t.Session.SceneState = nil

	if !ok {
		return nil
	}

	t.logger.Debug("leave scene", "scene", active.id)
	return active.scene.Leave(ctx, t)
}
