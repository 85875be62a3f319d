package auth

import (
	"net/http"

	"github.com/amkolotov/users/internal/models"
)

// IdentityReader extracts the candidate identity carried by a request, or ""
// when none is present. Implemented by the session manager.
type IdentityReader interface {
	Identity(r *http.Request) string
}

// Guard is the enforcement point handlers call before performing any side
// effect. It resolves the request's identity and consults the policy; the
// check runs to completion, store round-trip included, before the handler
// proceeds.
type Guard struct {
	sessions IdentityReader
	policy   *Policy
}

func NewGuard(sessions IdentityReader, policy *Policy) *Guard {
	return &Guard{sessions: sessions, policy: policy}
}

// Identify returns the request's validated identity, or "" when the request
// carries no token or the token's account no longer validates. A token is
// necessary but not sufficient: the policy is consulted on every call.
func (g *Guard) Identify(r *http.Request) (string, error) {
	identity := g.sessions.Identity(r)
	if identity == "" {
		return "", nil
	}
	return g.policy.AuthorizedUserID(r.Context(), identity)
}

// RequireAuthenticated resolves the identity and fails with
// ErrUnauthenticated when there is none.
func (g *Guard) RequireAuthenticated(r *http.Request) (string, error) {
	identity, err := g.Identify(r)
	if err != nil {
		return "", err
	}
	if identity == "" {
		return "", ErrUnauthenticated
	}
	return identity, nil
}

// RequirePermission resolves the identity, then checks the role. An
// anonymous caller gets ErrUnauthenticated; a known caller with the wrong
// role gets ErrForbidden.
func (g *Guard) RequirePermission(r *http.Request, required models.Role) (string, error) {
	identity, err := g.RequireAuthenticated(r)
	if err != nil {
		return "", err
	}
	ok, err := g.policy.Permits(r.Context(), identity, required)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrForbidden
	}
	return identity, nil
}
