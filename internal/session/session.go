// Package session carries the request identity in a signed cookie. The
// cookie proves a prior successful login; whether that login still names a
// valid account is the authorization policy's question, asked on every
// request.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager issues, reads, and clears the identity cookie. The cookie value is
// an HS256 JWT whose subject is the account login.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewManager(secret, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Remember attaches an identity token for the login to the response. Exactly
// one cookie is set per call.
func (m *Manager) Remember(w http.ResponseWriter, login string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   login,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		Expires:  now.Add(m.ttl),
	})
	return nil
}

// Forget clears the identity cookie. Safe to call when no session exists.
func (m *Manager) Forget(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		MaxAge:   -1,
	})
}

// Identity returns the login carried by a well-formed, correctly signed,
// unexpired cookie, and "" otherwise. It never touches the store.
func (m *Manager) Identity(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return ""
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}
