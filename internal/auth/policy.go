package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage"
)

// Policy answers two questions against the user store: is an identity still
// a valid, non-disabled account, and does it hold a given role. Both are
// read-only and consulted on every request; nothing is cached, so disabling
// or deleting an account takes effect on its very next call.
type Policy struct {
	store storage.UserStore
}

func NewPolicy(store storage.UserStore) *Policy {
	return &Policy{store: store}
}

// AuthorizedUserID returns the identity unchanged if an active account with
// that login exists, and "" otherwise.
func (p *Policy) AuthorizedUserID(ctx context.Context, identity string) (string, error) {
	if identity == "" {
		return "", nil
	}
	_, err := p.store.FindActiveByLogin(ctx, identity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	return identity, nil
}

// Permits reports whether the identity's stored role equals the required
// one exactly. An empty identity short-circuits to false with no store
// access. A missing account, a disabled account, or a missing role row all
// deny cleanly; only store failures return an error.
func (p *Policy) Permits(ctx context.Context, identity string, required models.Role) (bool, error) {
	if identity == "" {
		return false, nil
	}

	user, err := p.store.FindActiveByLogin(ctx, identity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	perm, err := p.store.RoleByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find role: %w", err)
	}

	return perm.Role == required, nil
}
