package auth

import "errors"

var (
	// ErrUnauthenticated means no valid session identity is present, or the
	// bound account no longer validates (disabled or deleted).
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the identity is valid but its role does not match
	// the required permission.
	ErrForbidden = errors.New("permission denied")

	// ErrInvalidCredentials means a login/password pair failed verification.
	// The message shown to clients must not reveal whether the login exists.
	ErrInvalidCredentials = errors.New("invalid login/password combination")
)
