package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vianajose7/faaxis-auth/internal/logging"
	"github.com/vianajose7/faaxis-auth/internal/metrics"
	"github.com/vianajose7/faaxis-auth/internal/models"
	"github.com/vianajose7/faaxis-auth/internal/session"
	"github.com/vianajose7/faaxis-auth/internal/tokens"
)

// Context keys set on successful resolution.
const (
	CtxUserID    = "user_id"
	CtxIsAdmin   = "is_admin"
	CtxIsPremium = "is_premium"
)

// CookieSetter matches httpserver.CookieWriter; the resolver needs to
// rewrite and clear cookies without importing the handler package.
type CookieSetter interface {
	SessionCookie(token string, exp time.Time) *http.Cookie
	PresenceCookie(exp time.Time) *http.Cookie
	Delete(name string) *http.Cookie
}

// Resolver authenticates inbound requests. Resolution order is fixed:
// bearer header, then token cookie, then the legacy server-side session.
type Resolver struct {
	Issuer  *tokens.Issuer
	Legacy  *session.Store
	Cookies CookieSetter
}

func NewResolver(issuer *tokens.Issuer, legacy *session.Store, cookies CookieSetter) *Resolver {
	return &Resolver{Issuer: issuer, Legacy: legacy, Cookies: cookies}
}

type validatorFunc func(c echo.Context) error

func (r *Resolver) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return r.resolveWith(next, nil)
}

func (r *Resolver) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return r.resolveWith(next, func(c echo.Context) error {
		if admin, _ := c.Get(CtxIsAdmin).(bool); !admin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (r *Resolver) resolveWith(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		tokenStr, found := tokens.FromRequest(c.Request())
		if found {
			claims, err := r.Issuer.Verify(tokenStr)
			if err == nil {
				userID, _ := claims.UserID()
				setPrincipal(c, userID, claims.IsAdmin, claims.IsPremium)
				r.slideWindow(c, claims)
				if validator != nil {
					if verr := validator(c); verr != nil {
						return verr
					}
				}
				return next(c)
			}
			// A dead token must not keep riding along on every request.
			r.clearCookies(c)
			l.Debug("token rejected", "error", err)
		}

		// Legacy fallback runs strictly after the token path has failed
		// or produced nothing.
		if p, ok := r.legacyPrincipal(c); ok {
			setPrincipal(c, p.UserID, p.IsAdmin, p.IsPremium)
			if validator != nil {
				if verr := validator(c); verr != nil {
					return verr
				}
			}
			return next(c)
		}

		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
}

// Optional resolves the principal when credentials are present but never
// rejects the request; logout relies on it to stay idempotent.
func (r *Resolver) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tokenStr, found := tokens.FromRequest(c.Request()); found {
			if claims, err := r.Issuer.Verify(tokenStr); err == nil {
				userID, _ := claims.UserID()
				setPrincipal(c, userID, claims.IsAdmin, claims.IsPremium)
				return next(c)
			}
			r.clearCookies(c)
		}
		if p, ok := r.legacyPrincipal(c); ok {
			setPrincipal(c, p.UserID, p.IsAdmin, p.IsPremium)
		}
		return next(c)
	}
}

func (r *Resolver) legacyPrincipal(c echo.Context) (session.Principal, bool) {
	if r.Legacy == nil {
		return session.Principal{}, false
	}
	cookie, err := c.Cookie(tokens.LegacyCookieName)
	if err != nil || cookie.Value == "" {
		return session.Principal{}, false
	}
	return r.Legacy.Get(cookie.Value)
}

// slideWindow re-issues the token when the remaining lifetime drops under
// the refresh threshold. Header-authenticated clients get the refreshed
// cookie too; they simply ignore it.
func (r *Resolver) slideWindow(c echo.Context, claims *tokens.SessionClaims) {
	if !tokens.NeedsRefresh(claims, time.Now()) {
		return
	}
	user := models.User{
		IsAdmin:       claims.IsAdmin,
		IsPremium:     claims.IsPremium,
		EmailVerified: claims.EmailVerified,
	}
	if id, err := claims.UserID(); err == nil {
		user.ID = id
	} else {
		return
	}
	fresh, exp, err := r.Issuer.Issue(&user, time.Now())
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("token refresh failed", "error", err)
		return
	}
	c.SetCookie(r.Cookies.SessionCookie(fresh, exp))
	c.SetCookie(r.Cookies.PresenceCookie(exp))
	metrics.TokenRefreshes.Inc()
}

func (r *Resolver) clearCookies(c echo.Context) {
	c.SetCookie(r.Cookies.Delete(tokens.CookieName))
	c.SetCookie(r.Cookies.Delete(tokens.PresenceCookieName))
}

func setPrincipal(c echo.Context, id uuid.UUID, admin, premium bool) {
	c.Set(CtxUserID, id)
	c.Set(CtxIsAdmin, admin)
	c.Set(CtxIsPremium, premium)
}

// UserID reads the resolved principal id from the Echo context.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(CtxUserID).(uuid.UUID)
	return id, ok
}
