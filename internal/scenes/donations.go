package scenes

import (
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
)

type donationsState struct {
	Back scene.Return `json:"back,omitempty"`
}

// donations shows the support-the-project view.
type donations struct {
	*scene.List[struct{}]
	deps Deps
}

func newDonations(deps Deps) *donations {
	d := &donations{deps: deps}
	d.List = scene.NewList[struct{}](&staticSource{
		content: func(ctx context.Context, t *scene.Turn) (scene.Content, error) {
			return deps.Views.Build(ctx, domain.DonationsView, t.Peer,
				"If the bot is useful to you, you can support it here."), nil
		},
		extras: func(ctx context.Context, t *scene.Turn) domain.Keyboard {
			return domain.Keyboard{backRow()}
		},
	}, scene.DefaultPageSize)
	return d
}

func (d *donations) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := d.HandlePageAction(ctx, t, action); handled {
		return err
	}

	if action == actionReturn {
		state, err := scene.DecodeState[donationsState](t)
		if err != nil {
			return err
		}
		return t.Resume(ctx, state.Back, IDGreetings)
	}

	t.Logger().Debug("unknown donations action", "action", action)
	return nil
}
