package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/internal/adapters/file"
	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/ports"
)

func TestSessionStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSessionStoreContract(t, store)
}

func TestSessionStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	sess := domain.NewSession(domain.Peer{UserID: 5, ChatID: -100, Username: "gamer"})
	sess.Count = 3
	require.NoError(t, file.New(dir).Set(ctx, "5:-100", sess))

	// A fresh store over the same directory sees the session.
	reopened := file.New(dir)
	got, err := reopened.Get(ctx, "5:-100")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "gamer", got.Username)

	records, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "5:-100", records[0].Key)
}

func TestSessionStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := file.New(dir)
	require.NoError(t, store.Set(ctx, "1:1", domain.NewSession(domain.Peer{UserID: 1, ChatID: 1})))

	// A leftover temp file from an interrupted write must not surface.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-123.json"), []byte("{"), 0644))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
