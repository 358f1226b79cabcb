package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vianajose7/faaxis-auth/internal/models"
	"github.com/vianajose7/faaxis-auth/internal/session"
	"github.com/vianajose7/faaxis-auth/internal/tokens"
)

type testCookies struct{}

func (testCookies) SessionCookie(token string, exp time.Time) *http.Cookie {
	return &http.Cookie{Name: tokens.CookieName, Value: token, Path: "/", Expires: exp}
}

func (testCookies) PresenceCookie(exp time.Time) *http.Cookie {
	return &http.Cookie{Name: tokens.PresenceCookieName, Value: "1", Path: "/", Expires: exp}
}

func (testCookies) Delete(name string) *http.Cookie {
	return &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1}
}

func newResolverApp(t *testing.T) (*echo.Echo, *tokens.Issuer, *session.Store) {
	t.Helper()

	issuer, err := tokens.NewIssuer([]byte("test-jwt-secret"))
	require.NoError(t, err)
	legacy := session.NewStore(time.Hour)
	r := NewResolver(issuer, legacy, testCookies{})

	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/private", ok, r.RequireAuth)
	e.GET("/admin", ok, r.RequireAdmin)
	return e, issuer, legacy
}

func issue(t *testing.T, issuer *tokens.Issuer, u *models.User, at time.Time) string {
	t.Helper()
	tok, _, err := issuer.Issue(u, at)
	require.NoError(t, err)
	return tok
}

func get(e *echo.Echo, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestResolver_RequireAuth(t *testing.T) {
	t.Parallel()

	e, issuer, _ := newResolverApp(t)
	user := &models.User{ID: uuid.New()}

	rec := get(e, "/private", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok := issue(t, issuer, user, time.Now())
	rec = get(e, "/private", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolver_RequireAdmin(t *testing.T) {
	t.Parallel()

	e, issuer, _ := newResolverApp(t)

	plain := issue(t, issuer, &models.User{ID: uuid.New()}, time.Now())
	rec := get(e, "/admin", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+plain)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := issue(t, issuer, &models.User{ID: uuid.New(), IsAdmin: true}, time.Now())
	rec = get(e, "/admin", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+admin)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolver_SlidingRefresh(t *testing.T) {
	t.Parallel()

	e, issuer, _ := newResolverApp(t)
	user := &models.User{ID: uuid.New()}

	// Fresh token: no rewrite, the cookie jar stays quiet.
	fresh := issue(t, issuer, user, time.Now())
	rec := get(e, "/private", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.CookieName, Value: fresh})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	// Six days old, one left: the resolver slides the window.
	old := issue(t, issuer, user, time.Now().Add(-6*24*time.Hour))
	rec = get(e, "/private", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.CookieName, Value: old})
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokens.CookieName {
			refreshed = c
		}
	}
	require.NotNil(t, refreshed)
	assert.NotEqual(t, old, refreshed.Value)

	claims, err := issuer.Verify(refreshed.Value)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now().Add(6*24*time.Hour)))
}

func TestResolver_LegacyAfterTokenFailure(t *testing.T) {
	t.Parallel()

	e, _, legacy := newResolverApp(t)
	legacy.Put("sid-1", session.Principal{UserID: uuid.New(), IsAdmin: true})

	// Legacy session alone resolves.
	rec := get(e, "/private", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.LegacyCookieName, Value: "sid-1"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Legacy principal carries its role flags through.
	rec = get(e, "/admin", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.LegacyCookieName, Value: "sid-1"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown legacy session: rejected.
	rec = get(e, "/private", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.LegacyCookieName, Value: "sid-unknown"})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
