package scenes

import (
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
)

type searchState struct {
	Query string       `json:"query,omitempty"`
	Back  scene.Return `json:"back,omitempty"`

	// NodeID records the category node the user searched from. The
	// ranker matches against the whole collection regardless.
	NodeID int64 `json:"nodeId,omitempty"`
}

// searchScene matches free text against the whole game collection.
// Every new message replaces the query and refreshes the result list in
// place.
type searchScene struct {
	*scene.List[domain.Game]
	deps Deps
}

func newSearch(deps Deps) *searchScene {
	s := &searchScene{deps: deps}
	s.List = scene.NewList[domain.Game](s, searchPageSize)
	return s
}

func (s *searchScene) FetchDataset(ctx context.Context, t *scene.Turn) ([]domain.Game, error) {
	state, err := scene.DecodeState[searchState](t)
	if err != nil {
		return nil, err
	}
	if state.Query == "" {
		return nil, nil
	}

	games, err := s.deps.Catalog.Games(ctx)
	if err != nil {
		return nil, err
	}
	return s.deps.ranker().Rank(state.Query, games), nil
}

func (s *searchScene) ItemRow(ctx context.Context, t *scene.Turn, game domain.Game) []domain.Button {
	return []domain.Button{domain.URLButton("🕹 "+game.Name, game.URL)}
}

func (s *searchScene) ExtraRows(ctx context.Context, t *scene.Turn) domain.Keyboard {
	return domain.Keyboard{backRow()}
}

func (s *searchScene) PageContent(ctx context.Context, t *scene.Turn, page []domain.Game) (scene.Content, error) {
	return s.deps.Views.Build(ctx, domain.GameSearchResultsView, t.Peer,
		"Here is what I found:"), nil
}

func (s *searchScene) EmptyContent(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return s.deps.Views.Build(ctx, domain.EmptyGameSearchResultsView, t.Peer,
		"Nothing found. Type a game name to search."), nil
}

func (s *searchScene) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := s.HandlePageAction(ctx, t, action); handled {
		return err
	}

	if action == actionReturn {
		state, err := scene.DecodeState[searchState](t)
		if err != nil {
			return err
		}
		return t.Resume(ctx, state.Back, IDGreetings)
	}

	t.Logger().Debug("unknown search action", "action", action)
	return nil
}

// HandleMessage replaces the query and refreshes the results.
func (s *searchScene) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	state, err := scene.DecodeState[searchState](t)
	if err != nil {
		return err
	}
	state.Query = text
	if err := t.SetState(state); err != nil {
		return err
	}
	return t.Reenter(ctx)
}
