package scenes

import (
	"context"
	"time"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
)

type feedbackState struct {
	Sent bool         `json:"sent,omitempty"`
	Back scene.Return `json:"back,omitempty"`
}

// feedback collects a free-text message from the user. The view flips
// to a thank-you once a message is stored.
type feedback struct {
	*scene.List[struct{}]
	deps Deps
}

func newFeedback(deps Deps) *feedback {
	f := &feedback{deps: deps}
	f.List = scene.NewList[struct{}](&staticSource{
		content: f.content,
		extras: func(ctx context.Context, t *scene.Turn) domain.Keyboard {
			return domain.Keyboard{backRow()}
		},
	}, scene.DefaultPageSize)
	return f
}

func (f *feedback) content(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	state, err := scene.DecodeState[feedbackState](t)
	if err != nil {
		return scene.Content{}, err
	}

	code := domain.FeedbackViewBefore
	fallback := "Tell me what you think, I read everything."
	if state.Sent {
		code = domain.FeedbackViewAfter
		fallback = "Thanks, {first_name}! Got it."
	}
	return f.deps.Views.Build(ctx, code, t.Peer, fallback), nil
}

func (f *feedback) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := f.HandlePageAction(ctx, t, action); handled {
		return err
	}

	if action == actionReturn {
		state, err := scene.DecodeState[feedbackState](t)
		if err != nil {
			return err
		}
		return t.Resume(ctx, state.Back, IDGreetings)
	}

	t.Logger().Debug("unknown feedback action", "action", action)
	return nil
}

// HandleMessage stores the feedback and flips the view.
func (f *feedback) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	state, err := scene.DecodeState[feedbackState](t)
	if err != nil {
		return err
	}

	err = f.deps.Feedback.Add(ctx, &domain.Feedback{
		UserID:    t.Peer.UserID,
		Username:  t.Peer.Username,
		Message:   text,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// Tell the user instead of silently dropping their message.
		t.Logger().Error("failed to store feedback", "err", err)
		_, sendErr := t.Transport().SendMessage(ctx, t.ChatID(),
			"Something went wrong saving your message, please try again.", nil)
		if sendErr != nil {
			t.Logger().Error("failed to send feedback error notice", "err", sendErr)
		}
		return nil
	}

	state.Sent = true
	if err := t.SetState(state); err != nil {
		return err
	}
	return t.Reenter(ctx)
}
