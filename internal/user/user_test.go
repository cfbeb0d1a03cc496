package user_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwis/gatehouse/internal/user"
)

func TestPermissions_Membership(t *testing.T) {
	perms := user.NewPermissions("posts:write", "posts:delete")

	assert.True(t, perms.Contains("posts:write"))
	assert.True(t, perms.Contains("posts:delete"))
	assert.False(t, perms.Contains("admin"))
	assert.False(t, user.NewPermissions().Contains("anything"))
}

func TestPermissions_Tokens(t *testing.T) {
	perms := user.NewPermissions("a", "b")
	assert.ElementsMatch(t, []string{"a", "b"}, perms.Tokens())
}

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()

	created, err := store.Create(ctx, user.CreateParams{
		Username:     "alice",
		DisplayName:  "Alice",
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		Permissions:  user.NewPermissions("posts:write"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	byID, err := store.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.True(t, byID.Permissions.Contains("posts:write"))

	byName, err := store.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()

	_, err := store.ByID(ctx, 404)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = store.ByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestMemoryStore_UsernameCaseSensitive(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()

	_, err := store.Create(ctx, user.CreateParams{Username: "Alice"})
	require.NoError(t, err)

	_, err = store.ByUsername(ctx, "alice")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestMemoryStore_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()

	_, err := store.Create(ctx, user.CreateParams{Username: "bob"})
	require.NoError(t, err)

	_, err = store.Create(ctx, user.CreateParams{Username: "bob"})
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)
}

func TestMemoryStore_ConcurrentSignupsOneWinner(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()

	const attempts = 32
	var (
		wg         sync.WaitGroup
		successes  int
		duplicates int
		mu         sync.Mutex
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(ctx, user.CreateParams{Username: "contested"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, user.ErrDuplicateUsername):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)

	u, err := store.ByUsername(ctx, "contested")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()

	created, err := store.Create(ctx, user.CreateParams{
		Username:    "carol",
		Permissions: user.NewPermissions("posts:write"),
	})
	require.NoError(t, err)

	// Mutating a returned record must not leak into the store.
	created.DisplayName = "changed"
	created.Permissions["admin"] = struct{}{}

	fresh, err := store.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.DisplayName)
	assert.False(t, fresh.Permissions.Contains("admin"))
}
