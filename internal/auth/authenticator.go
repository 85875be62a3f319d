package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/amkolotov/users/internal/storage"
)

// Authenticator validates login/password pairs against the user store.
type Authenticator struct {
	store storage.UserStore
}

func NewAuthenticator(store storage.UserStore) *Authenticator {
	return &Authenticator{store: store}
}

// CheckCredentials reports whether the pair matches an active account.
// Unknown and disabled logins return false without any hash work, so the
// check is not constant-time across the "unknown login" and "bad password"
// branches; a caller that must not leak login existence has to pad the
// miss path itself. A non-nil error is always a store failure, never a
// verdict.
func (a *Authenticator) CheckCredentials(ctx context.Context, login, password string) (bool, error) {
	user, err := a.store.FindActiveByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return CheckPassword(password, user.PasswordHash), nil
}
