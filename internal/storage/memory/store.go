// Package memory provides an in-memory UserStore used by unit tests. It
// honors the same sentinel-error contract as the Postgres store.
package memory

import (
	"context"
	"sync"

	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store keeps users and role rows in mutex-guarded maps.
type Store struct {
	mu         sync.Mutex
	nextUserID int64
	nextPermID int64
	users      map[int64]models.User
	perms      map[int64]models.Permission // keyed by user id
}

func NewStore() *Store {
	return &Store{
		users: make(map[int64]models.User),
		perms: make(map[int64]models.Permission),
	}
}

func (s *Store) CreateUser(_ context.Context, user models.User, role models.Role) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Login == user.Login {
			return models.User{}, storage.ErrAlreadyExists
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = user

	s.nextPermID++
	s.perms[user.ID] = models.Permission{
		ID:     s.nextPermID,
		UserID: user.ID,
		Role:   role,
	}
	return user, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindByLogin(_ context.Context, login string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Login == login {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) FindActiveByLogin(_ context.Context, login string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Login == login && !u.Disabled {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) RoleByUserID(_ context.Context, userID int64) (models.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perm, ok := s.perms[userID]
	if !ok {
		return models.Permission{}, storage.ErrNotFound
	}
	return perm, nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for id := int64(1); id <= s.nextUserID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, patch storage.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if patch.Login != nil {
		for otherID, u := range s.users {
			if otherID != id && u.Login == *patch.Login {
				return storage.ErrAlreadyExists
			}
		}
		user.Login = *patch.Login
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Birthday != nil {
		b := *patch.Birthday
		user.Birthday = &b
	}
	if patch.Disabled != nil {
		user.Disabled = *patch.Disabled
	}
	s.users[id] = user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	delete(s.perms, id) // cascade
	return nil
}

// DeleteRole drops the user's role row without touching the user. Tests use
// it to exercise the missing-role-row deny path.
func (s *Store) DeleteRole(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.perms, userID)
}
