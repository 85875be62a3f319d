package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage"
	"github.com/amkolotov/users/internal/storage/memory"
)

// countingStore records how many lookups reach the store.
type countingStore struct {
	*memory.Store
	lookups int
}

func (c *countingStore) FindActiveByLogin(ctx context.Context, login string) (models.User, error) {
	c.lookups++
	return c.Store.FindActiveByLogin(ctx, login)
}

func (c *countingStore) RoleByUserID(ctx context.Context, userID int64) (models.Permission, error) {
	c.lookups++
	return c.Store.RoleByUserID(ctx, userID)
}

func TestPermits_EmptyIdentityNeverTouchesStore(t *testing.T) {
	t.Parallel()

	store := &countingStore{Store: memory.NewStore()}
	policy := NewPolicy(store)

	ok, err := policy.Permits(context.Background(), "", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.lookups)
}

func TestPermits_ExactRoleMatchOnly(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedUser(t, store, "admin", "admin", models.RoleAdmin, false)
	seedUser(t, store, "user", "user", models.RoleReadOnly, false)

	policy := NewPolicy(store)
	ctx := context.Background()

	tests := []struct {
		identity string
		required models.Role
		want     bool
	}{
		{"admin", models.RoleAdmin, true},
		{"admin", models.RoleReadOnly, false}, // no hierarchy in either direction
		{"user", models.RoleReadOnly, true},
		{"user", models.RoleAdmin, false},
		{"nobody", models.RoleAdmin, false},
	}
	for _, tt := range tests {
		ok, err := policy.Permits(ctx, tt.identity, tt.required)
		require.NoError(t, err)
		assert.Equalf(t, tt.want, ok, "Permits(%q, %q)", tt.identity, tt.required)
	}
}

func TestPermits_MissingRoleRowDenies(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	user := seedUser(t, store, "orphan", "pw", models.RoleAdmin, false)
	store.DeleteRole(user.ID)

	policy := NewPolicy(store)
	ok, err := policy.Permits(context.Background(), "orphan", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermits_DisabledAccountDenies(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	user := seedUser(t, store, "admin", "admin", models.RoleAdmin, false)

	policy := NewPolicy(store)
	ctx := context.Background()

	ok, err := policy.Permits(ctx, "admin", models.RoleAdmin)
	require.NoError(t, err)
	require.True(t, ok)

	disabled := true
	require.NoError(t, store.UpdateUser(ctx, user.ID, storage.UserPatch{Disabled: &disabled}))

	ok, err = policy.Permits(ctx, "admin", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermits_StoreFailureIsNotADenial(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(failingStore{})
	ok, err := policy.Permits(context.Background(), "admin", models.RoleAdmin)
	assert.False(t, ok)
	require.ErrorIs(t, err, errConnRefused)
}

func TestAuthorizedUserID(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	user := seedUser(t, store, "user", "user", models.RoleReadOnly, false)

	policy := NewPolicy(store)
	ctx := context.Background()

	id, err := policy.AuthorizedUserID(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "user", id)

	id, err = policy.AuthorizedUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = policy.AuthorizedUserID(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.DeleteUser(ctx, user.ID))
	id, err = policy.AuthorizedUserID(ctx, "user")
	require.NoError(t, err)
	assert.Empty(t, id)
}
