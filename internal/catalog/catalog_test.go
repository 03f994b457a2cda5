package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/catalog"
	"github.com/gamebase54/gamebot/pkg/domain"
)

const sampleYAML = `
categories:
  - id: 1
    name: Consoles
  - id: 2
    name: Arcade
  - id: 3
    parentId: 1
    name: SNES
  - id: 4
    parentId: 1
    name: NES
    workInProgress: true
games:
  - id: 100
    categoryId: 3
    name: Super Mario World
    url: https://example.org/smw
  - id: 101
    categoryId: 3
    name: Chrono Trigger
    url: https://example.org/ct
  - id: 102
    name: Pong
    url: https://example.org/pong
`

func load(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(sampleYAML))
	require.NoError(t, err)
	return c
}

func TestCategory(t *testing.T) {
	c := load(t)
	ctx := context.Background()

	cat, err := c.Category(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "SNES", cat.Name)
	assert.Equal(t, 2, cat.GameCount)

	_, err = c.Category(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChildCategories_NameAscending(t *testing.T) {
	c := load(t)

	top, err := c.ChildCategories(context.Background(), domain.RootNodeID)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Arcade", top[0].Name)
	assert.Equal(t, "Consoles", top[1].Name)

	sub, err := c.ChildCategories(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sub, 2)
	assert.Equal(t, "NES", sub[0].Name)
	assert.True(t, sub[0].WorkInProgress)
	assert.Equal(t, "SNES", sub[1].Name)
}

func TestGamesByCategory(t *testing.T) {
	c := load(t)
	ctx := context.Background()

	games, err := c.GamesByCategory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Chrono Trigger", games[0].Name)
	assert.Equal(t, "Super Mario World", games[1].Name)

	// Uncategorized games hang off the root.
	root, err := c.GamesByCategory(ctx, domain.RootNodeID)
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, "Pong", root[0].Name)

	empty, err := c.GamesByCategory(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGames_WholeCollection(t *testing.T) {
	c := load(t)
	games, err := c.Games(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "Chrono Trigger", games[0].Name)
	assert.Equal(t, "Pong", games[1].Name)
	assert.Equal(t, "Super Mario World", games[2].Name)
}
