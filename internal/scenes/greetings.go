package scenes

import (
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
)

// greetings is the root menu scene: a welcome view with navigation
// buttons. Free text typed here is treated as a search query.
type greetings struct {
	*scene.List[struct{}]
	deps Deps
}

func newGreetings(deps Deps) *greetings {
	g := &greetings{deps: deps}
	g.List = scene.NewList[struct{}](&staticSource{
		content: g.content,
		extras:  g.extras,
	}, scene.DefaultPageSize)
	return g
}

func (g *greetings) content(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return g.deps.Views.Build(ctx, domain.GreetingsView, t.Peer,
		"Hi, {first_name}! Pick a category or type a game name to search."), nil
}

func (g *greetings) extras(ctx context.Context, t *scene.Turn) domain.Keyboard {
	return domain.Keyboard{
		{domain.CallbackButton("🎮 Browse games", actionToCategories)},
		{domain.CallbackButton("🔍 Search", actionToSearch)},
		{
			domain.CallbackButton("💬 Feedback", actionToFeedback),
			domain.CallbackButton("☕ Donations", actionToDonations),
		},
	}
}

func (g *greetings) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := g.HandlePageAction(ctx, t, action); handled {
		return err
	}

	back := t.ReturnHere()
	switch action {
	case actionToCategories:
		return t.Enter(ctx, IDCategories, nil)
	case actionToSearch:
		return t.Enter(ctx, IDSearch, searchState{Back: back})
	case actionToFeedback:
		return t.Enter(ctx, IDFeedback, feedbackState{Back: back})
	case actionToDonations:
		return t.Enter(ctx, IDDonations, donationsState{Back: back})
	}

	t.Logger().Debug("unknown greetings action", "action", action)
	return nil
}

// HandleMessage treats any text as a search query.
func (g *greetings) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	return t.Enter(ctx, IDSearch, searchState{Query: text, Back: t.ReturnHere()})
}
