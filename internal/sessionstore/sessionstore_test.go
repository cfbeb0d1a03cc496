package sessionstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwis/gatehouse/internal/session"
	"github.com/benwis/gatehouse/internal/sessionstore"
)

func newSession(t *testing.T, ttl time.Duration) session.Session {
	t.Helper()
	sess, err := session.New(ttl)
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(42))
	sess.Remember(true)
	return sess
}

// storeUnderTest runs the shared Store contract against a backend.
func storeUnderTest(t *testing.T, store session.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, session.ErrNotFound)

		_, err = store.GetByToken(ctx, "missing-token")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		sess := newSession(t, time.Hour)
		require.NoError(t, store.Save(ctx, &sess))

		byID, err := store.GetByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, byID.ID)
		assert.Equal(t, sess.Token, byID.Token)
		assert.Equal(t, int64(42), byID.UserID)
		assert.True(t, byID.Remembered)
		assert.WithinDuration(t, sess.ExpiresAt, byID.ExpiresAt, time.Second)

		byToken, err := store.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, byToken.ID)
	})

	t.Run("upsert replaces state", func(t *testing.T) {
		sess := newSession(t, time.Hour)
		require.NoError(t, store.Save(ctx, &sess))

		oldToken := sess.Token
		require.NoError(t, sess.ClearUser())
		require.NoError(t, store.Save(ctx, &sess))

		loaded, err := store.GetByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.Zero(t, loaded.UserID)
		assert.Equal(t, sess.Token, loaded.Token)

		_, err = store.GetByToken(ctx, oldToken)
		assert.ErrorIs(t, err, session.ErrNotFound, "rotated token must not resolve")
	})

	t.Run("delete", func(t *testing.T) {
		sess := newSession(t, time.Hour)
		require.NoError(t, store.Save(ctx, &sess))

		require.NoError(t, store.Delete(ctx, sess.ID))

		_, err := store.GetByID(ctx, sess.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = store.GetByToken(ctx, sess.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, sess.ID), session.ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, sessionstore.NewMemory())
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := sessionstore.NewMemory()

	live := newSession(t, time.Hour)
	require.NoError(t, store.Save(ctx, &live))

	dead, err := session.New(time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &dead))
	time.Sleep(5 * time.Millisecond)

	removed, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.GetByID(ctx, live.ID)
	assert.NoError(t, err)
	_, err = store.GetByID(ctx, dead.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func newRedisStore(t *testing.T) (*sessionstore.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return sessionstore.NewRedis(client), mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	storeUnderTest(t, store)
}

func TestRedisStore_NativeExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	sess := newSession(t, time.Minute)
	require.NoError(t, store.Save(ctx, &sess))

	mr.FastForward(2 * time.Minute)

	_, err := store.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.GetByToken(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisStore_SaveExpiredRejected(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	sess, err := session.New(-time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Save(ctx, &sess), session.ErrExpired)
}
