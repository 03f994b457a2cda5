// Package scene implements the conversational navigation runtime: a registry
// of scene handlers, per-conversation dispatch of inbound chat events, and
// the paginated list / hierarchical tree renderers that keep exactly one
// live reply message per scene instance.
package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
)

// Scene governs one step of the conversation and its rendering logic.
// Instances are created per conversation by the registered factory, so
// implementations may keep derived state on their fields.
type Scene interface {
	// Enter activates the scene. It is also re-invoked on Reenter with the
	// scene's previously stored state.
	Enter(ctx context.Context, t *Turn) error

	// Leave tears the scene down before another one is entered. The router
	// always calls it, never skips it.
	Leave(ctx context.Context, t *Turn) error

	// HandleAction processes an inline button callback.
	HandleAction(ctx context.Context, t *Turn, action string) error

	// HandleMessage processes free-text input.
	HandleMessage(ctx context.Context, t *Turn, text string) error
}

// Factory creates a fresh scene instance for one conversation.
type Factory func() Scene

// Return is a back-pointer: the scene and state to resume after a child
// scene exits.
type Return struct {
	SceneID string          `json:"sceneId"`
	State   json.RawMessage `json:"state,omitempty"`
}

// Turn is the per-event context handed to scene handlers. It carries the
// conversation identity, the loaded session and the transition operations.
type Turn struct {
	Key     string
	Peer    domain.Peer
	Session *domain.Session

	router *Router
	logger *slog.Logger
}

// Transport returns the chat transport.
func (t *Turn) Transport() ports.ChatTransport {
	return t.router.transport
}

// Logger returns a logger scoped to the conversation.
func (t *Turn) Logger() *slog.Logger {
	return t.logger
}

// ChatID returns the chat the reply messages go to.
func (t *Turn) ChatID() int64 {
	return t.Peer.ChatID
}

// SceneID returns the identifier of the active scene, empty when none.
func (t *Turn) SceneID() string {
	return t.Session.SceneID
}

// State returns the active scene's stored state blob.
func (t *Turn) State() json.RawMessage {
	return t.Session.SceneState
}

// SetState replaces the active scene's stored state. Typically followed by
// Reenter to refresh the view.
func (t *Turn) SetState(v any) error {
	raw, err := marshalState(v)
	if err != nil {
		return err
	}
	t.Session.SceneState = raw
	return nil
}

// Enter activates another scene, passing a state blob into its entry
// handler. The currently active scene is always left first.
func (t *Turn) Enter(ctx context.Context, sceneID string, state any) error {
	return t.router.enter(ctx, t, sceneID, state)
}

// Reenter re-invokes the active scene's entry handler with its stored
// state. Used to refresh a view in place after pagination or drill-down.
func (t *Turn) Reenter(ctx context.Context) error {
	return t.router.reenter(ctx, t)
}

// Leave tears down the active scene without entering a new one.
func (t *Turn) Leave(ctx context.Context) error {
	return t.router.leave(ctx, t)
}

// ReturnHere captures a back-pointer to the active scene and its current
// state, for a child scene to resume later.
func (t *Turn) ReturnHere() Return {
	return Return{SceneID: t.Session.SceneID, State: t.Session.SceneState}
}

// Resume enters the scene recorded in a back-pointer with its original
// state, falling back to the given scene when the pointer is empty.
func (t *Turn) Resume(ctx context.Context, r Return, fallbackSceneID string) error {
	if r.SceneID == "" {
		return t.Enter(ctx, fallbackSceneID, nil)
	}
	return t.Enter(ctx, r.SceneID, r.State)
}

func (t *Turn) emitRender(ctx context.Context, created bool, pageNumber, pageCount int) {
	if t.router.hooks.OnRender != nil {
		t.router.hooks.OnRender(ctx, &domain.RenderEvent{
			ConversationKey: t.Key,
			SceneID:         t.Session.SceneID,
			Created:         created,
			PageNumber:      pageNumber,
			PageCount:       pageCount,
		})
	}
}

// DecodeState unmarshals the active scene's state blob into T. An empty
// blob yields the zero value.
func DecodeState[T any](t *Turn) (T, error) {
	var v T
	if len(t.Session.SceneState) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(t.Session.SceneState, &v); err != nil {
		return v, fmt.Errorf("failed to decode scene state: %w", err)
	}
	return v, nil
}

func marshalState(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene state: %w", err)
	}
	return raw, nil
}
