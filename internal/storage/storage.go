package storage

import (
	"context"
	"errors"
	"time"

	"github.com/amkolotov/users/internal/models"
)

// ErrNotFound indicates a record does not exist (or is filtered out, e.g. a
// disabled user queried through FindActiveByLogin).
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict, e.g. a duplicate login.
var ErrAlreadyExists = errors.New("record already exists")

// UserPatch is a partial update: nil fields are left untouched. PasswordHash
// must already be hashed by the caller; plaintext never reaches the store.
type UserPatch struct {
	Login        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Birthday     *time.Time
	Disabled     *bool
}

// Empty reports whether the patch would change nothing.
func (p UserPatch) Empty() bool {
	return p.Login == nil && p.PasswordHash == nil && p.FirstName == nil &&
		p.LastName == nil && p.Birthday == nil && p.Disabled == nil
}

// UserStore captures persistence operations needed by the authenticator,
// the authorization policy, and the handlers. Any error other than the
// sentinels above is a store failure and must be propagated, never treated
// as a denial.
type UserStore interface {
	// CreateUser inserts the user together with its role row.
	CreateUser(ctx context.Context, user models.User, role models.Role) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByLogin(ctx context.Context, login string) (models.User, error)
	// FindActiveByLogin matches only users with disabled = false; a disabled
	// user looks exactly like a missing one.
	FindActiveByLogin(ctx context.Context, login string) (models.User, error)
	// RoleByUserID returns the 0-or-1 permission row for the user;
	// ErrNotFound when absent.
	RoleByUserID(ctx context.Context, userID int64) (models.Permission, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) error
	// DeleteUser hard-deletes the user; the role row goes with it.
	DeleteUser(ctx context.Context, id int64) error
}
