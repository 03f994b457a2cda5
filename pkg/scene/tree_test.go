package scene_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/adapters/chattest"
	"github.com/gamebase54/gamebot/internal/adapters/memory"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
	"github.com/gamebase54/gamebot/pkg/session"
)

type folder struct {
	ID   int64
	Name string
}

type file struct {
	ID   int64
	Name string
}

// stubTree is a fixed three-level hierarchy:
//
//	root: folders A(1), B(2); file x(100)
//	A:    folder C(3); file y(101)
//	C:    file z(102)
type stubTree struct{}

func (stubTree) Structure(ctx context.Context, t *scene.Turn, nodeID int64) (domain.Structure[folder, file], error) {
	switch nodeID {
	case domain.RootNodeID:
		return domain.Structure[folder, file]{
			Parents: []folder{{1, "A"}, {2, "B"}},
			Leafs:   []file{{100, "x"}},
		}, nil
	case 1:
		return domain.Structure[folder, file]{
			Parents: []folder{{3, "C"}},
			Leafs:   []file{{101, "y"}},
		}, nil
	case 3:
		return domain.Structure[folder, file]{Leafs: []file{{102, "z"}}}, nil
	case 2:
		return domain.Structure[folder, file]{}, nil
	}
	return domain.Structure[folder, file]{}, domain.ErrNotFound
}

func (stubTree) ParentID(p folder) int64 { return p.ID }
func (stubTree) LeafID(l file) int64     { return l.ID }

func (stubTree) ParentButton(ctx context.Context, t *scene.Turn, p folder) domain.Button {
	return domain.CallbackButton("📂 "+p.Name, strconv.FormatInt(p.ID, 10))
}

func (stubTree) LeafButton(ctx context.Context, t *scene.Turn, l file) domain.Button {
	return domain.URLButton(l.Name, "https://example.com/"+l.Name)
}

func (stubTree) NodeContent(ctx context.Context, t *scene.Turn, nodeID int64, page []domain.TreeNode[folder, file]) (scene.Content, error) {
	return scene.Content{Text: fmt.Sprintf("node %d", nodeID)}, nil
}

func (stubTree) EmptyContent(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return scene.Content{Text: "empty folder"}, nil
}

func (stubTree) ExtraRows(ctx context.Context, t *scene.Turn) domain.Keyboard { return nil }

type treeScene struct {
	*scene.Tree[folder, file]
}

func (s *treeScene) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	_, err := s.Tree.HandleAction(ctx, t, action)
	return err
}

func (s *treeScene) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	return nil
}

func newTreeFixture(t *testing.T) (*scene.Router, *chattest.Transport) {
	t.Helper()

	transport := chattest.New()
	router := scene.NewRouter(session.NewManager(memory.NewSessionStore()), transport)
	router.Register("tree", func() scene.Scene {
		return &treeScene{Tree: scene.NewTree[folder, file](stubTree{}, 10)}
	})
	return router, transport
}

func hasUpButton(kb domain.Keyboard) bool {
	for _, row := range kb {
		for _, b := range row {
			if b.Action == scene.ActionUp {
				return true
			}
		}
	}
	return false
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

func TestTree_RootRender(t *testing.T) {
	router, transport := newTreeFixture(t)

	require.NoError(t, router.Dispatch(context.Background(), domain.NewMessageUpdate(testPeer, 1, "hi")))

	msg := lastLive(t, transport)
	assert.Equal(t, "node 0", msg.Text)
	// Two parent rows plus one leaf row, no up button at root.
	assert.Equal(t, []string{"📂 A", "📂 B", "x"}, buttonTexts(msg.Keyboard))
	assert.False(t, hasUpButton(msg.Keyboard))
}

func TestTree_DrillDownAndAscend(t *testing.T) {
	router, transport := newTreeFixture(t)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))

	// Drill into A: children of node 1, up button offered, still one message.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "1")))
	msg := lastLive(t, transport)
	assert.Equal(t, "node 1", msg.Text)
	assert.Contains(t, buttonTexts(msg.Keyboard), "📂 C")
	assert.True(t, hasUpButton(msg.Keyboard))
	require.Len(t, transport.Live(testPeer.ChatID), 1)

	// Drill into C: two levels deep.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "3")))
	msg = lastLive(t, transport)
	assert.Equal(t, "node 3", msg.Text)
	assert.Contains(t, buttonTexts(msg.Keyboard), "z")

	// Up walks the full trail back: C -> A -> root.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionUp)))
	assert.Equal(t, "node 1", lastLive(t, transport).Text)

	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionUp)))
	msg = lastLive(t, transport)
	assert.Equal(t, "node 0", msg.Text)
	assert.False(t, hasUpButton(msg.Keyboard))

	// Up at root stays at root.
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, scene.ActionUp)))
	assert.Equal(t, "node 0", lastLive(t, transport).Text)
}

func TestTree_EmptyNodeRendersEmptyPath(t *testing.T) {
	router, transport := newTreeFixture(t)
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "2")))

	msg := lastLive(t, transport)
	assert.Equal(t, "empty folder", msg.Text)
}

func TestTree_StatePersistedAcrossRestart(t *testing.T) {
	store := memory.NewSessionStore()
	transport := chattest.New()
	ctx := context.Background()

	build := func() *scene.Router {
		router := scene.NewRouter(session.NewManager(store), transport)
		router.Register("tree", func() scene.Scene {
			return &treeScene{Tree: scene.NewTree[folder, file](stubTree{}, 10)}
		})
		return router
	}

	router := build()
	require.NoError(t, router.Dispatch(ctx, domain.NewMessageUpdate(testPeer, 1, "hi")))
	require.NoError(t, router.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "1")))

	// A fresh router (new process) rebuilds the scene from the persisted
	// session and resumes at the same node.
	restarted := build()
	require.NoError(t, restarted.Dispatch(ctx, domain.NewCallbackUpdate(testPeer, "3")))

	msg := lastLive(t, transport)
	assert.Equal(t, "node 3", msg.Text)

	sess, err := store.Get(ctx, domain.Update{Peer: testPeer}.ConversationKey())
	require.NoError(t, err)
	assert.Equal(t, "tree", sess.SceneID)
	assert.Contains(t, string(sess.SceneState), `"nodeId":3`)
}
