package scenes

import (
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
)

type gamesState struct {
	CategoryID int64        `json:"categoryId"`
	Back       scene.Return `json:"back,omitempty"`
}

// games lists the games of one category; each row is a play link.
type games struct {
	*scene.List[domain.Game]
	deps Deps
}

func newGames(deps Deps) *games {
	g := &games{deps: deps}
	g.List = scene.NewList[domain.Game](g, gamesPageSize)
	return g
}

func (g *games) FetchDataset(ctx context.Context, t *scene.Turn) ([]domain.Game, error) {
	state, err := scene.DecodeState[gamesState](t)
	if err != nil {
		return nil, err
	}
	return g.deps.Catalog.GamesByCategory(ctx, state.CategoryID)
}

func (g *games) ItemRow(ctx context.Context, t *scene.Turn, game domain.Game) []domain.Button {
	return []domain.Button{domain.URLButton("🕹 "+game.Name, game.URL)}
}

func (g *games) ExtraRows(ctx context.Context, t *scene.Turn) domain.Keyboard {
	return domain.Keyboard{backRow()}
}

func (g *games) PageContent(ctx context.Context, t *scene.Turn, page []domain.Game) (scene.Content, error) {
	state, err := scene.DecodeState[gamesState](t)
	if err != nil {
		return scene.Content{}, err
	}

	content := g.deps.Views.Build(ctx, domain.DefaultCategoryView, t.Peer, "Pick a game:")
	if cat, err := g.deps.Catalog.Category(ctx, state.CategoryID); err == nil && cat.Description != "" {
		content.Text = cat.Description
	}
	return content, nil
}

func (g *games) EmptyContent(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return g.deps.Views.Build(ctx, domain.EmptyCategoryView, t.Peer,
		"No games in this category yet."), nil
}

func (g *games) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := g.HandlePageAction(ctx, t, action); handled {
		return err
	}

	if action == actionReturn {
		state, err := scene.DecodeState[gamesState](t)
		if err != nil {
			return err
		}
		return t.Resume(ctx, state.Back, IDCategories)
	}

	t.Logger().Debug("unknown games action", "action", action)
	return nil
}

// HandleMessage treats any text as a search query, tagged with the
// category the user searched from.
func (g *games) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	state, err := scene.DecodeState[gamesState](t)
	if err != nil {
		return err
	}
	return t.Enter(ctx, IDSearch, searchState{Query: text, NodeID: state.CategoryID, Back: t.ReturnHere()})
}
