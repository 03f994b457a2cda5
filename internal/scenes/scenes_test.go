package scenes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/adapters/chattest"
	"github.com/gamebase54/gamebot/internal/adapters/memory"
	"github.com/gamebase54/gamebot/internal/catalog"
	"github.com/gamebase54/gamebot/internal/scenes"
	"github.com/gamebase54/gamebot/internal/views"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
	"github.com/gamebase54/gamebot/pkg/session"
)

const catalogYAML = `
categories:
  - id: 1
    name: Consoles
  - id: 2
    parentId: 1
    name: SNES
  - id: 3
    parentId: 1
    name: NES
games:
  - id: 100
    categoryId: 2
    name: Super Mario World
    url: https://example.org/smw
  - id: 101
    categoryId: 2
    name: Chrono Trigger
    url: https://example.org/ct
  - id: 102
    categoryId: 3
    name: Contra
    url: https://example.org/contra
`

var peer = domain.Peer{UserID: 1, ChatID: 42, Username: "gamer", FirstName: "Sam"}

type fixture struct {
	router    *scene.Router
	transport *chattest.Transport
	feedback  *memory.FeedbackStore
	store     *memory.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat, err := catalog.Parse([]byte(catalogYAML))
	require.NoError(t, err)

	viewStore := views.NewStore(map[domain.ViewCode]domain.View{
		domain.GreetingsView:              {Description: "Hi, {first_name}!"},
		domain.CategorySelectionView:      {Description: "Pick a category:"},
		domain.EmptyCategoryView:          {Description: "No games here yet."},
		domain.GameSearchResultsView:      {Description: "Found these:"},
		domain.EmptyGameSearchResultsView: {Description: "Nothing found."},
		domain.FeedbackViewBefore:         {Description: "Tell me everything."},
		domain.FeedbackViewAfter:          {Description: "Thanks, {first_name}!"},
		domain.DonationsView:              {Description: "Support the bot."},
	})

	f := &fixture{
		transport: chattest.New(),
		feedback:  memory.NewFeedbackStore(),
		store:     memory.NewSessionStore(),
	}
	f.router = scene.NewRouter(session.NewManager(f.store), f.transport)
	f.router.RegisterCommand("start", func(ctx context.Context, turn *scene.Turn, args string) error {
		return turn.Enter(ctx, scenes.IDGreetings, nil)
	})
	scenes.Register(f.router, scenes.Deps{
		Catalog:  cat,
		Views:    views.NewReplyBuilder(viewStore, nil, nil),
		Feedback: f.feedback,
		NewsURL:  "https://t.me/example_news",
	})
	return f
}

func (f *fixture) message(t *testing.T, id int, text string) {
	t.Helper()
	require.NoError(t, f.router.Dispatch(context.Background(), domain.NewMessageUpdate(peer, id, text)))
}

func (f *fixture) tap(t *testing.T, action string) {
	t.Helper()
	require.NoError(t, f.router.Dispatch(context.Background(), domain.NewCallbackUpdate(peer, action)))
}

func (f *fixture) session(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := f.store.Get(context.Background(), "1:42")
	require.NoError(t, err)
	return sess
}

func (f *fixture) live(t *testing.T) *chattest.Message {
	t.Helper()
	live := f.transport.Live(peer.ChatID)
	require.Len(t, live, 1, "expected exactly one live reply message")
	return live[0]
}

func buttonTexts(kb domain.Keyboard) []string {
	var texts []string
	for _, row := range kb {
		for _, b := range row {
			texts = append(texts, b.Text)
		}
	}
	return texts
}

func findAction(kb domain.Keyboard, text string) (string, bool) {
	for _, row := range kb {
		for _, b := range row {
			if b.Text == text {
				return b.Action, true
			}
		}
	}
	return "", false
}

func TestGreetingsMenu(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")

	msg := f.live(t)
	assert.Equal(t, "Hi, Sam!", msg.Text)
	assert.Contains(t, buttonTexts(msg.Keyboard), "🎮 Browse games")
	assert.Contains(t, buttonTexts(msg.Keyboard), "🔍 Search")
}

func TestBrowseToGameList(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")
	f.tap(t, "nav_to_categories")

	// Root page: Consoles is a branch (has subcategories).
	msg := f.live(t)
	assert.Equal(t, "Pick a category:", msg.Text)
	assert.Contains(t, buttonTexts(msg.Keyboard), "📂 Consoles")
	assert.Contains(t, buttonTexts(msg.Keyboard), "📣 News channel")

	// Drill into Consoles: SNES and NES are leaves with game counts.
	f.tap(t, "1")
	msg = f.live(t)
	assert.Contains(t, buttonTexts(msg.Keyboard), "🎮 NES (1)")
	assert.Contains(t, buttonTexts(msg.Keyboard), "🎮 SNES (2)")

	// Open the SNES game list.
	action, ok := findAction(msg.Keyboard, "🎮 SNES (2)")
	require.True(t, ok)
	f.tap(t, action)

	msg = f.live(t)
	texts := buttonTexts(msg.Keyboard)
	assert.Contains(t, texts, "🕹 Chrono Trigger")
	assert.Contains(t, texts, "🕹 Super Mario World")

	// Back returns to the Consoles node, not the category root.
	f.tap(t, "return")
	msg = f.live(t)
	assert.Contains(t, buttonTexts(msg.Keyboard), "🎮 SNES (2)")
	assert.Contains(t, buttonTexts(msg.Keyboard), "⬆️ Up one level")
}

func TestSearchFlow(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")

	// Free text in the menu starts a search.
	f.message(t, 2, "mario")
	msg := f.live(t)
	assert.Equal(t, "Found these:", msg.Text)
	texts := buttonTexts(msg.Keyboard)
	assert.Contains(t, texts, "🕹 Super Mario World")
	assert.NotContains(t, texts, "🕹 Contra")

	// A new message replaces the query in the same reply message.
	f.message(t, 3, "contra")
	msg = f.live(t)
	assert.Contains(t, buttonTexts(msg.Keyboard), "🕹 Contra")

	// No matches renders the empty path.
	f.message(t, 4, "zzzzzz")
	assert.Equal(t, "Nothing found.", f.live(t).Text)

	// Back resumes the menu.
	f.tap(t, "return")
	assert.Equal(t, "Hi, Sam!", f.live(t).Text)
}

func TestSearchFromCategoryCarriesNode(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")
	f.tap(t, "nav_to_categories")
	f.tap(t, "1")

	// Searching from inside the tree records the node it started from.
	f.message(t, 2, "mario")
	sess := f.session(t)
	assert.Equal(t, scenes.IDSearch, sess.SceneID)
	assert.Contains(t, string(sess.SceneState), `"nodeId":1`)

	// Back resumes the Consoles node, not the category root.
	f.tap(t, "return")
	assert.Contains(t, buttonTexts(f.live(t).Keyboard), "⬆️ Up one level")
}

func TestFeedbackFlow(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")
	f.tap(t, "nav_to_feedback")
	assert.Equal(t, "Tell me everything.", f.live(t).Text)

	f.message(t, 2, "more SNES games please")
	assert.Equal(t, "Thanks, Sam!", f.live(t).Text)

	entries := f.feedback.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "more SNES games please", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].UserID)

	f.tap(t, "return")
	assert.Equal(t, "Hi, Sam!", f.live(t).Text)
}

func TestDonations(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")
	f.tap(t, "nav_to_donations")
	assert.Equal(t, "Support the bot.", f.live(t).Text)

	f.tap(t, "return")
	assert.Equal(t, "Hi, Sam!", f.live(t).Text)
}

func TestFeedbackCommand(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")

	// The command jumps into the feedback scene instead of being
	// swallowed as a search query.
	f.message(t, 2, "/feedback")
	assert.Equal(t, scenes.IDFeedback, f.session(t).SceneID)
	assert.Equal(t, "Tell me everything.", f.live(t).Text)

	f.message(t, 3, "port more shooters")
	entries := f.feedback.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "port more shooters", entries[0].Message)

	f.tap(t, "return")
	assert.Equal(t, "Hi, Sam!", f.live(t).Text)
}

func TestDonationsCommand(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")
	f.tap(t, "nav_to_categories")

	f.message(t, 2, "/donations")
	assert.Equal(t, scenes.IDDonations, f.session(t).SceneID)
	assert.Equal(t, "Support the bot.", f.live(t).Text)

	// Back resumes the scene the command interrupted.
	f.tap(t, "return")
	assert.Equal(t, scenes.IDCategories, f.session(t).SceneID)
	assert.Equal(t, "Pick a category:", f.live(t).Text)
}

func TestRestartCommand(t *testing.T) {
	f := newFixture(t)
	f.message(t, 1, "/start")
	f.tap(t, "nav_to_categories")
	f.tap(t, "1")

	f.message(t, 2, "/restart")
	sess := f.session(t)
	assert.Equal(t, scenes.IDGreetings, sess.SceneID)
	assert.Equal(t, "Hi, Sam!", f.live(t).Text)
}
