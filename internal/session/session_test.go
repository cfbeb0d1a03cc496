package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.Zero(t, sess.UserID)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.Persist)
	assert.False(t, sess.Remembered)
	assert.False(t, sess.IsExpired())
	assert.False(t, sess.IsDestroyed())
	assert.True(t, sess.IsModified())
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Second)
}

func TestNew_TokensAreUnique(t *testing.T) {
	a, err := New(time.Hour)
	require.NoError(t, err)
	b, err := New(time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAuthenticate(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)
	anonToken := sess.Token

	require.NoError(t, sess.Authenticate(42))

	assert.Equal(t, int64(42), sess.UserID)
	assert.True(t, sess.IsAuthenticated())
	assert.NotEqual(t, anonToken, sess.Token, "token must rotate on login")
}

func TestAuthenticate_SameUserIdempotent(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(42))
	token := sess.Token

	require.NoError(t, sess.Authenticate(42))

	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, token, sess.Token)
}

func TestAuthenticate_DifferentUserOverwrites(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(42))
	token := sess.Token

	require.NoError(t, sess.Authenticate(7))

	assert.Equal(t, int64(7), sess.UserID)
	assert.NotEqual(t, token, sess.Token)
}

func TestClearUser(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(42))
	authToken := sess.Token

	require.NoError(t, sess.ClearUser())

	assert.Zero(t, sess.UserID)
	assert.False(t, sess.IsAuthenticated())
	assert.NotEqual(t, authToken, sess.Token, "token must rotate on logout")
}

func TestClearUser_AnonymousNoop(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)
	token := sess.Token

	require.NoError(t, sess.ClearUser())

	assert.Equal(t, token, sess.Token)
}

func TestFlags_Independent(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)

	sess.Remember(true)
	assert.True(t, sess.Remembered)
	assert.False(t, sess.Persist)

	sess.SetPersist(true)
	assert.True(t, sess.Persist)
	assert.True(t, sess.Remembered)

	sess.Remember(false)
	assert.True(t, sess.Persist)
	assert.False(t, sess.Remembered)
}

func TestTouch_Throttled(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)
	sess.modified = false
	expiry := sess.ExpiresAt

	// Interval has not elapsed: nothing changes.
	sess.Touch(time.Hour, time.Minute)
	assert.Equal(t, expiry, sess.ExpiresAt)
	assert.False(t, sess.IsModified())

	// Zero interval always extends.
	sess.Touch(2*time.Hour, 0)
	assert.True(t, sess.ExpiresAt.After(expiry))
	assert.True(t, sess.IsModified())
}

func TestIsExpired(t *testing.T) {
	sess, err := New(-time.Minute)
	require.NoError(t, err)
	assert.True(t, sess.IsExpired())
}

func TestDestroy(t *testing.T) {
	sess, err := New(time.Hour)
	require.NoError(t, err)

	sess.Destroy()

	assert.True(t, sess.IsDestroyed())
	assert.True(t, sess.IsModified())
}
