package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager("test-secret", "session", time.Hour, false)
}

// requestWithCookies simulates the browser carrying cookies from a previous
// response into the next request: for each name the last Set-Cookie wins,
// and a negative MaxAge deletes it.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	effective := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(effective, c.Name)
		} else {
			effective[c.Name] = c
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range effective {
		r.AddCookie(c)
	}
	return r
}

func TestRememberThenIdentity(t *testing.T) {
	t.Parallel()

	m := newManager()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Remember(rec, "admin"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	assert.Equal(t, "admin", m.Identity(requestWithCookies(rec)))
}

func TestForget(t *testing.T) {
	t.Parallel()

	m := newManager()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Remember(rec, "admin"))
	m.Forget(rec)

	assert.Empty(t, m.Identity(requestWithCookies(rec)))
}

func TestForget_WithoutSessionIsANoOp(t *testing.T) {
	t.Parallel()

	m := newManager()
	rec := httptest.NewRecorder()
	m.Forget(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
	assert.Empty(t, m.Identity(requestWithCookies(rec)))
}

func TestIdentity_NoCookie(t *testing.T) {
	t.Parallel()

	m := newManager()
	assert.Empty(t, m.Identity(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestIdentity_TamperedToken(t *testing.T) {
	t.Parallel()

	issuer := newManager()
	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Remember(rec, "admin"))

	// Same cookie, different signing secret.
	verifier := NewManager("another-secret", "session", time.Hour, false)
	assert.Empty(t, verifier.Identity(requestWithCookies(rec)))
}

func TestIdentity_ExpiredToken(t *testing.T) {
	t.Parallel()

	m := NewManager("test-secret", "session", -time.Minute, false)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Remember(rec, "admin"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	assert.Empty(t, m.Identity(r))
}
