package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Options bound the connection pool and individual round-trips. The pool is
// the backpressure mechanism: when it is saturated, callers block until a
// connection frees up.
type Options struct {
	MinConns     int32
	MaxConns     int32
	QueryTimeout time.Duration
}

// Store provides Postgres-backed persistence for users and their roles.
type Store struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewStore connects a pool with the given bounds and runs migrations.
func NewStore(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &Store{pool: pool, queryTimeout: timeout}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// opCtx bounds a single store round-trip. Expiry surfaces as an ordinary
// store failure to the caller, never as a denial.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			login VARCHAR(128) UNIQUE NOT NULL,
			password_hash VARCHAR(128) NOT NULL,
			first_name VARCHAR(128),
			last_name VARCHAR(128),
			birthday DATE,
			disabled BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS permissions (
			id BIGSERIAL PRIMARY KEY,
			users_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL DEFAULT 'readonly',
			blocking BOOLEAN NOT NULL DEFAULT FALSE
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// Reset drops and recreates both tables. Used by the seeding command only.
func (s *Store) Reset(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS permissions;`,
		`DROP TABLE IF EXISTS users;`,
	} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	return s.migrate(ctx)
}

const userColumns = `id, login, password_hash, first_name, last_name, birthday, disabled`

// CreateUser inserts the user row and its role row in one transaction.
func (s *Store) CreateUser(ctx context.Context, user models.User, role models.Role) (models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO users (login, password_hash, first_name, last_name, birthday, disabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns+`;`,
		user.Login, user.PasswordHash, nullable(user.FirstName), nullable(user.LastName), user.Birthday, user.Disabled)

	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapConstraint(err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO permissions (users_id, role) VALUES ($1, $2);`,
		created.ID, role.String()); err != nil {
		return models.User{}, mapConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// FindByID fetches a user regardless of the disabled flag.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// FindByLogin fetches a user by exact login match, disabled or not.
func (s *Store) FindByLogin(ctx context.Context, login string) (models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1;`, login)
	return scanUser(row)
}

// FindActiveByLogin fetches a non-disabled user by exact login match. A
// disabled account is indistinguishable from a missing one.
func (s *Store) FindActiveByLogin(ctx context.Context, login string) (models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE login = $1 AND NOT disabled;`, login)
	return scanUser(row)
}

// RoleByUserID fetches the user's single permission row.
func (s *Store) RoleByUserID(ctx context.Context, userID int64) (models.Permission, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var perm models.Permission
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT id, users_id, role, blocking FROM permissions WHERE users_id = $1;`, userID).
		Scan(&perm.ID, &perm.UserID, &role, &perm.Blocking)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Permission{}, storage.ErrNotFound
		}
		return models.Permission{}, err
	}
	perm.Role = models.Role(role)
	return perm, nil
}

// ListUsers returns every account, enabled or not.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies the non-nil patch fields to the user row.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch storage.UserPatch) error {
	if patch.Empty() {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if patch.Login != nil {
		add("login", *patch.Login)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Birthday != nil {
		add("birthday", *patch.Birthday)
	}
	if patch.Disabled != nil {
		add("disabled", *patch.Disabled)
	}
	args = append(args, id)

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $`+strconv.Itoa(len(args))+`;`,
		args...)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser removes the user row; the permissions row cascades.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var firstName, lastName *string
	err := row.Scan(&user.ID, &user.Login, &user.PasswordHash,
		&firstName, &lastName, &user.Birthday, &user.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	return user, nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyExists
	}
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
