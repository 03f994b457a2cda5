package objectfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/adapters/objectfs"
	"github.com/gamebase54/gamebot/pkg/domain"
)

func TestGetObject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "views"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "greetings.png"), []byte("png-bytes"), 0644))

	store := objectfs.New(dir)
	ctx := context.Background()

	data, err := store.GetObject(ctx, "views/greetings.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	_, err = store.GetObject(ctx, "views/missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetObject(ctx, "../escape.png")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
