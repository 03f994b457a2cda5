package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests verifying that a
// SessionStore implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("SetAndGet", func(t *testing.T) {
		sess := domain.NewSession(domain.Peer{UserID: 7, ChatID: 7, Username: "tester"})
		sess.Count = 3
		sess.SessionsCount = 2
		sess.LastRequestDate = time.Now().Truncate(time.Second).UTC()
		sess.SentMessageIDs = []int{10, 11}
		sess.SceneID = "categories"

		require.NoError(t, store.Set(ctx, key, sess))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, sess.Count, loaded.Count)
		assert.Equal(t, sess.Username, loaded.Username)
		assert.Equal(t, sess.SessionsCount, loaded.SessionsCount)
		assert.Equal(t, sess.SentMessageIDs, loaded.SentMessageIDs)
		assert.Equal(t, sess.SceneID, loaded.SceneID)
		assert.True(t, sess.LastRequestDate.Equal(loaded.LastRequestDate))
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		_, err := store.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		sess := domain.NewSession(domain.Peer{UserID: 7, ChatID: 7})
		sess.Count = 1
		require.NoError(t, store.Set(ctx, key, sess))
		sess.Count = 2
		require.NoError(t, store.Set(ctx, key, sess))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Count)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, domain.NewSession(domain.Peer{UserID: 7, ChatID: 7})))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting a missing key is not an error.
		assert.NoError(t, store.Delete(ctx, key))
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Set(ctx, k1, domain.NewSession(domain.Peer{UserID: 1, ChatID: 1})))
		require.NoError(t, store.Set(ctx, k2, domain.NewSession(domain.Peer{UserID: 2, ChatID: 2})))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		records, err := store.List(ctx)
		require.NoError(t, err)

		keys := make([]string, 0, len(records))
		for _, rec := range records {
			require.NotNil(t, rec.Session)
			keys = append(keys, rec.Key)
		}
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunNotificationStoreContract verifies the pull-once semantics of a
// NotificationStore implementation.
func RunNotificationStoreContract(t *testing.T, store NotificationStore) {
	ctx := context.Background()

	t.Run("PullEmpty", func(t *testing.T) {
		n, err := store.Pull(ctx)
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("PullOldestFirstExactlyOnce", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		newer := &domain.Notification{ID: "n-newer", Message: "second", CreatedAt: base.Add(time.Minute)}
		older := &domain.Notification{ID: "n-older", Message: "first", CreatedAt: base}
		require.NoError(t, store.Enqueue(ctx, newer))
		require.NoError(t, store.Enqueue(ctx, older))

		got, err := store.Pull(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "n-older", got.ID)
		assert.True(t, got.WasHandled)

		got, err = store.Pull(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "n-newer", got.ID)

		got, err = store.Pull(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
