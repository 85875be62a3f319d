package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage"
	"github.com/amkolotov/users/internal/storage/memory"
)

func seedUser(t *testing.T, store *memory.Store, login, password string, role models.Role, disabled bool) models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), models.User{
		Login:        login,
		PasswordHash: hash,
		Disabled:     disabled,
	}, role)
	require.NoError(t, err)
	return user
}

func TestCheckCredentials(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedUser(t, store, "admin", "admin", models.RoleAdmin, false)
	seedUser(t, store, "ghost", "ghost", models.RoleReadOnly, true)

	authn := NewAuthenticator(store)
	ctx := context.Background()

	tests := []struct {
		name     string
		login    string
		password string
		want     bool
	}{
		{"correct pair", "admin", "admin", true},
		{"wrong password", "admin", "nope", false},
		{"unknown login", "nobody", "admin", false},
		{"login case must match exactly", "Admin", "admin", false},
		{"disabled account", "ghost", "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := authn.CheckCredentials(ctx, tt.login, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckCredentials_DisablingTakesImmediateEffect(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	user := seedUser(t, store, "user", "user", models.RoleReadOnly, false)

	authn := NewAuthenticator(store)
	ctx := context.Background()

	ok, err := authn.CheckCredentials(ctx, "user", "user")
	require.NoError(t, err)
	require.True(t, ok)

	disabled := true
	require.NoError(t, store.UpdateUser(ctx, user.ID, storage.UserPatch{Disabled: &disabled}))

	ok, err = authn.CheckCredentials(ctx, "user", "user")
	require.NoError(t, err)
	assert.False(t, ok)
}

// failingStore simulates a lost database connection on every lookup.
type failingStore struct {
	storage.UserStore
}

var errConnRefused = errors.New("connection refused")

func (failingStore) FindActiveByLogin(context.Context, string) (models.User, error) {
	return models.User{}, errConnRefused
}

func (failingStore) RoleByUserID(context.Context, int64) (models.Permission, error) {
	return models.Permission{}, errConnRefused
}

func TestCheckCredentials_StoreFailureIsAnError(t *testing.T) {
	t.Parallel()

	authn := NewAuthenticator(failingStore{})
	ok, err := authn.CheckCredentials(context.Background(), "admin", "admin")
	assert.False(t, ok)
	require.ErrorIs(t, err, errConnRefused)
}
