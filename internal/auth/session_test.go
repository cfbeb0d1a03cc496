package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwis/gatehouse/internal/auth"
	"github.com/benwis/gatehouse/internal/permission"
	"github.com/benwis/gatehouse/internal/session"
	"github.com/benwis/gatehouse/internal/user"
)

// countingStore wraps a user.Store and counts ByID calls so tests can
// assert on lookup caching.
type countingStore struct {
	user.Store
	byIDCalls int
}

func (s *countingStore) ByID(ctx context.Context, id int64) (*user.User, error) {
	s.byIDCalls++
	return s.Store.ByID(ctx, id)
}

// failingStore returns a fixed error from every lookup.
type failingStore struct {
	err error
}

func (s *failingStore) ByID(context.Context, int64) (*user.User, error)         { return nil, s.err }
func (s *failingStore) ByUsername(context.Context, string) (*user.User, error)  { return nil, s.err }
func (s *failingStore) Create(context.Context, user.CreateParams) (*user.User, error) {
	return nil, s.err
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	return &sess
}

func seedUser(t *testing.T, store *user.MemoryStore, username string, perms ...string) *user.User {
	t.Helper()
	u, err := store.Create(context.Background(), user.CreateParams{
		Username:     username,
		DisplayName:  username,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Permissions:  user.NewPermissions(perms...),
	})
	require.NoError(t, err)
	return u
}

func TestSession_CurrentUser_Anonymous(t *testing.T) {
	t.Parallel()

	store := &countingStore{Store: user.NewMemoryStore()}
	as := auth.NewSession(newSession(t), store, permission.SetEvaluator{})

	u, err := as.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, as.IsAuthenticated())
	assert.Zero(t, store.byIDCalls)
}

func TestSession_CurrentUser_CachesLookup(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	seeded := seedUser(t, mem, "alice")
	store := &countingStore{Store: mem}
	as := auth.NewSession(newSession(t), store, permission.SetEvaluator{})

	require.NoError(t, as.LoginUser(seeded.ID))

	for range 3 {
		u, err := as.CurrentUser(context.Background())
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, seeded.ID, u.ID)
		assert.Equal(t, "alice", u.Username)
	}
	assert.Equal(t, 1, store.byIDCalls)
}

func TestSession_CurrentUser_VanishedUserFailsClosed(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	seeded := seedUser(t, mem, "alice")
	as := auth.NewSession(newSession(t), mem, permission.SetEvaluator{})

	require.NoError(t, as.LoginUser(seeded.ID))
	mem.Delete(seeded.ID)

	u, err := as.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, as.HasPermission(context.Background(), "read"))
}

func TestSession_CurrentUser_InfraErrorIsRetriable(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	store := &failingStore{err: boom}
	as := auth.NewSession(newSession(t), store, permission.SetEvaluator{})
	require.NoError(t, as.LoginUser(7))

	_, err := as.CurrentUser(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The failed lookup must not be cached as "anonymous".
	_, err = as.CurrentUser(context.Background())
	require.Error(t, err)
}

func TestSession_HasPermission(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	seeded := seedUser(t, mem, "alice", "posts.write")
	as := auth.NewSession(newSession(t), mem, permission.SetEvaluator{})

	ctx := context.Background()
	assert.False(t, as.HasPermission(ctx, "posts.write"), "anonymous holds nothing")

	require.NoError(t, as.LoginUser(seeded.ID))
	assert.True(t, as.HasPermission(ctx, "posts.write"))
	assert.False(t, as.HasPermission(ctx, "posts.delete"))
}

func TestSession_HasPermission_LookupFailureDenies(t *testing.T) {
	t.Parallel()

	store := &failingStore{err: errors.New("connection refused")}
	as := auth.NewSession(newSession(t), store, permission.SetEvaluator{})
	require.NoError(t, as.LoginUser(7))

	assert.False(t, as.HasPermission(context.Background(), "posts.write"))
}

func TestSession_LoginUser_ReplacesCachedUser(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	alice := seedUser(t, mem, "alice")
	bob := seedUser(t, mem, "bob")
	as := auth.NewSession(newSession(t), mem, permission.SetEvaluator{})

	ctx := context.Background()
	require.NoError(t, as.LoginUser(alice.ID))
	u, err := as.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	require.NoError(t, as.LoginUser(bob.ID))
	u, err = as.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
}

func TestSession_LogoutUser(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	seeded := seedUser(t, mem, "alice")
	sess := newSession(t)
	as := auth.NewSession(sess, mem, permission.SetEvaluator{})

	require.NoError(t, as.LoginUser(seeded.ID))
	as.SetPersist(true)
	tokenBefore := sess.Token

	require.NoError(t, as.LogoutUser())
	assert.False(t, as.IsAuthenticated())
	assert.NotEqual(t, tokenBefore, sess.Token, "logout rotates the token")
	assert.False(t, sess.Persist, "plain session is dropped on logout")

	u, err := as.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSession_LogoutUser_RememberedStaysDurable(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	seeded := seedUser(t, mem, "alice")
	sess := newSession(t)
	as := auth.NewSession(sess, mem, permission.SetEvaluator{})

	require.NoError(t, as.LoginUser(seeded.ID))
	as.SetPersist(true)
	as.RememberUser(true)

	require.NoError(t, as.LogoutUser())
	assert.False(t, as.IsAuthenticated())
	assert.True(t, sess.Persist, "remembered session survives logout")
}

func TestNewSession_PanicsOnNilCollaborators(t *testing.T) {
	t.Parallel()

	mem := user.NewMemoryStore()
	sess := newSession(t)

	assert.Panics(t, func() { auth.NewSession(nil, mem, permission.SetEvaluator{}) })
	assert.Panics(t, func() { auth.NewSession(sess, nil, permission.SetEvaluator{}) })
	assert.Panics(t, func() { auth.NewSession(sess, mem, nil) })
}
