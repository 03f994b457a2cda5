// Package scenes wires the bot's concrete conversation scenes: the
// greeting menu, the category tree, per-category game lists, free-text
// search, feedback and donations.
package scenes

import (
	"context"
	"log/slog"

	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/internal/views"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
	"github.com/gamebase54/gamebot/pkg/scene"
	"github.com/gamebase54/gamebot/pkg/search"
)

// Scene identifiers.
const (
	IDGreetings  = "greetings"
	IDCategories = "categories"
	IDGames      = "games"
	IDSearch     = "search"
	IDFeedback   = "feedback"
	IDDonations  = "donations"
)

// Navigation actions shared between scenes.
const (
	actionToCategories = "nav_to_categories"
	actionToSearch     = "nav_to_search"
	actionToFeedback   = "nav_to_feedback"
	actionToDonations  = "nav_to_donations"
	actionReturn       = "return"
)

// Page sizes follow the original bot layout: dense category pages, a
// slightly larger search result page.
const (
	categoriesPageSize = 8
	gamesPageSize      = 8
	searchPageSize     = 10
)

// Deps carries everything the concrete scenes need.
type Deps struct {
	Catalog  ports.Catalog
	Views    *views.ReplyBuilder
	Feedback ports.FeedbackStore
	Search   *search.Ranker[domain.Game]
	Logger   *slog.Logger

	// NewsURL, when set, adds a channel link button to the category root.
	NewsURL string
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.NewNop()
}

func (d Deps) ranker() *search.Ranker[domain.Game] {
	if d.Search != nil {
		return d.Search
	}
	return search.NewRanker(func(g domain.Game) string { return g.Name })
}

// Register installs all scenes on the router, with greetings as the
// root scene, plus the slash commands that jump straight into a scene.
func Register(router *scene.Router, deps Deps) {
	router.Register(IDGreetings, func() scene.Scene { return newGreetings(deps) })
	router.Register(IDCategories, func() scene.Scene { return newCategories(deps) })
	router.Register(IDGames, func() scene.Scene { return newGames(deps) })
	router.Register(IDSearch, func() scene.Scene { return newSearch(deps) })
	router.Register(IDFeedback, func() scene.Scene { return newFeedback(deps) })
	router.Register(IDDonations, func() scene.Scene { return newDonations(deps) })
	router.SetRoot(IDGreetings)

	router.RegisterCommand("feedback", func(ctx context.Context, t *scene.Turn, args string) error {
		return t.Enter(ctx, IDFeedback, feedbackState{Back: t.ReturnHere()})
	})
	router.RegisterCommand("donations", func(ctx context.Context, t *scene.Turn, args string) error {
		return t.Enter(ctx, IDDonations, donationsState{Back: t.ReturnHere()})
	})
	router.RegisterCommand("restart", func(ctx context.Context, t *scene.Turn, args string) error {
		if err := t.Leave(ctx); err != nil {
			t.Logger().Warn("failed to leave scene on restart", "err", err)
		}
		return t.Enter(ctx, IDGreetings, nil)
	})
}

// staticSource backs view-only scenes: no dataset, one informational
// message plus action rows.
type staticSource struct {
	content func(ctx context.Context, t *scene.Turn) (scene.Content, error)
	extras  func(ctx context.Context, t *scene.Turn) domain.Keyboard
}

func (s *staticSource) FetchDataset(ctx context.Context, t *scene.Turn) ([]struct{}, error) {
	return nil, nil
}

func (s *staticSource) ItemRow(ctx context.Context, t *scene.Turn, item struct{}) []domain.Button {
	return nil
}

func (s *staticSource) ExtraRows(ctx context.Context, t *scene.Turn) domain.Keyboard {
	if s.extras == nil {
		return nil
	}
	return s.extras(ctx, t)
}

func (s *staticSource) PageContent(ctx context.Context, t *scene.Turn, page []struct{}) (scene.Content, error) {
	return s.content(ctx, t)
}

func (s *staticSource) EmptyContent(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return s.content(ctx, t)
}

func backRow() []domain.Button {
	return []domain.Button{domain.CallbackButton("↩️ Back", actionReturn)}
}
