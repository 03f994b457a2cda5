package scene_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/adapters/chattest"
	"github.com/gamebase54/gamebot/internal/adapters/memory"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
	"github.com/gamebase54/gamebot/pkg/session"
)

var testPeer = domain.Peer{UserID: 1, ChatID: 42, Username: "tester"}

// stubSource is a ListSource over plain strings.
type stubSource struct {
	items []string
	image []byte
}

func (s *stubSource) FetchDataset(ctx context.Context, t *scene.Turn) ([]string, error) {
	return s.items, nil
}

func (s *stubSource) ItemRow(ctx context.Context, t *scene.Turn, item string) []domain.Button {
	return []domain.Button{domain.CallbackButton(item, "pick:"+item)}
}

func (s *stubSource) ExtraRows(ctx context.Context, t *scene.Turn) domain.Keyboard {
	return domain.Keyboard{{domain.CallbackButton("Extra", "extra")}}
}

func (s *stubSource) PageContent(ctx context.Context, t *scene.Turn, page []string) (scene.Content, error) {
	return scene.Content{Text: strings.Join(page, ","), Image: s.image}, nil
}

func (s *stubSource) EmptyContent(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return scene.Content{Text: "nothing here"}, nil
}

// listScene exposes the list base as a full Scene.
type listScene struct {
	*scene.List[string]
	received []string
}

func (s *listScene) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := s.HandlePageAction(ctx, t, action); handled {
		return err
	}
	switch action {
	case "refresh":
		return t.Reenter(ctx)
	case "go_other":
		return t.Enter(ctx, "other", nil)
	}
	return nil
}

func (s *listScene) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	s.received = append(s.received, text)
	return nil
}

// otherScene is a minimal second scene for transitions.
type otherScene struct{}

func (otherScene) Enter(ctx context.Context, t *scene.Turn) error {
	_, err := t.Transport().SendMessage(ctx, t.ChatID(), "other", nil)
	return err
}

func (otherScene) Leave(ctx context.Context, t *scene.Turn) error                   { return nil }
func (otherScene) HandleAction(ctx context.Context, t *scene.Turn, a string) error  { return nil }
func (otherScene) HandleMessage(ctx context.Context, t *scene.Turn, m string) error { return nil }

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%02d", i+1)
	}
	return out
}

func newListFixture(t *testing.T, src *stubSource, pageSize int) (*scene.Router, *chattest.Transport, *listScene) {
	t.Helper()

	transport := chattest.New()
	mgr := session.NewManager(memory.NewSessionStore())
	router := scene.NewRouter(mgr, transport)

	sc := &listScene{List: scene.NewList[string](src, pageSize)}
	router.Register("list", func() scene.Scene { return sc })
	router.Register("other", func() scene.Scene { return otherScene{} })
	router.SetRoot("list")
	return router, transport, sc
}

func lastLive(t *testing.T, transport *chattest.Transport) *chattest.Message {
	t.Helper()
	live := transport.Live(testPeer.ChatID)
	require.NotEmpty(t, live)
	return live[len(live)-1]
}

func navActions(kb domain.Keyboard) []string {
	var actions []string
	for _, row := range kb {
		for _, b := range row {
			if b.Action == scene.ActionPrev || b.Action == scene.ActionNext {
				actions = append(actions, b.Action)
			}
		}
	}
	return actions
}

func itemRowCount(kb domain.Keyboard) int {
	n := 0
	for _, row := range kb {
		for _, b := range row {
			if strings.HasPrefix(b.Action, "pick:") {
				n++
			}
		}
	}
	return n
}

func TestList_PageCountProperty(t *testing.T) {
	cases := []struct {
		n, p, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 8, 4},
		{7, 1, 7},
	}

	for _, tc := range cases {
		router, _, sc := newListFixture(t, &stubSource{items: items(tc.n)}, tc.p)
		err := router.Dispatch(context.Background(), domain.NewMessageUpdate(testPeer, 1, "hi"))
		require.NoError(t, err)

		_, count, total := sc.Page()
		assert.Equal(t, tc.want, count, "N=%d P=%d", tc.n, tc.p)
		assert.Equal(t, tc.n, total)
	}
}

func TestList_NavButtonOffers(t *testing.T) {
	router, transport, _ := newListFixture(t, &stubSource{items: items(25)}, 10)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))

	// Page 1: next only.
	msg := lastLive(t, transport)
	assert.Equal(t, 10, itemRowCount(msg.Keyboard))
	assert.Equal(t, []string{scene.ActionNext}, navActions(msg.Keyboard))

	// Page 2: both.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionNext)))
	msg = lastLive(t, transport)
	assert.Equal(t, []string{scene.ActionPrev, scene.ActionNext}, navActions(msg.Keyboard))

	// Page 3 (last, 5 items): prev only.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionNext)))
	msg = lastLive(t, transport)
	assert.Equal(t, 5, itemRowCount(msg.Keyboard))
	assert.Equal(t, []string{scene.ActionPrev}, navActions(msg.Keyboard))

	// Next beyond the last page is ignored.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionNext)))
	assert.Equal(t, []string{scene.ActionPrev}, navActions(lastLive(t, transport).Keyboard))
}

func TestList_RenderEditsInPlace(t *testing.T) {
	router, transport, _ := newListFixture(t, &stubSource{items: items(25)}, 10)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))
	require.Len(t, transport.Live(testPeer.ChatID), 1)

	// Pagination and reenter both edit the single live message.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionNext)))
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "refresh")))

	live := transport.Live(testPeer.ChatID)
	require.Len(t, live, 1, "render must never create a second live message")
	assert.Equal(t, 2, live[0].Edits)
	// Reenter resets to the first page.
	assert.Equal(t, strings.Join(items(25)[:10], ","), live[0].Text)
}

func TestList_EmptyDatasetPath(t *testing.T) {
	router, transport, sc := newListFixture(t, &stubSource{items: nil}, 10)

	require.NoError(t, router.Dispatch(context.Background(), domain.NewMessageUpdate(testPeer, 1, "hi")))

	msg := lastLive(t, transport)
	assert.Equal(t, "nothing here", msg.Text)
	assert.Equal(t, 0, itemRowCount(msg.Keyboard))
	assert.Empty(t, navActions(msg.Keyboard))

	_, count, total := sc.Page()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, total)
}

func TestList_LeaveDeletesReply(t *testing.T) {
	router, transport, _ := newListFixture(t, &stubSource{items: items(3)}, 10)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "go_other")))

	live := transport.Live(testPeer.ChatID)
	require.Len(t, live, 1)
	assert.Equal(t, "other", live[0].Text)
}

func TestList_LeaveAfterExternalDeletion(t *testing.T) {
	router, transport, _ := newListFixture(t, &stubSource{items: items(3)}, 10)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))
	msg := lastLive(t, transport)
	transport.ForceDelete(msg.ID)

	// Leaving must not raise even though the message is already gone.
	err := router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "go_other"))
	require.NoError(t, err)
	assert.Equal(t, "other", lastLive(t, transport).Text)
}

func TestList_PhotoContentEditsCaption(t *testing.T) {
	src := &stubSource{items: items(25), image: []byte{0x89, 0x50}}
	router, transport, _ := newListFixture(t, src, 10)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))
	msg := lastLive(t, transport)
	assert.True(t, msg.Photo)

	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionNext)))
	live := transport.Live(testPeer.ChatID)
	require.Len(t, live, 1)
	assert.True(t, live[0].Photo)
	assert.Equal(t, 1, live[0].Edits)
}

func TestList_UnknownCommandFallsThroughToScene(t *testing.T) {
	router, _, sc := newListFixture(t, &stubSource{items: items(3)}, 10)

	require.NoError(t, router.Dispatch(context.Background(), domain.NewMessageUpdate(testPeer, 1, "/bogus")))
	assert.Equal(t, []string{"/bogus"}, sc.received)
}
