package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vianajose7/faaxis-auth/internal/logging"
	"github.com/vianajose7/faaxis-auth/internal/metrics"
	"github.com/vianajose7/faaxis-auth/internal/middleware"
	"github.com/vianajose7/faaxis-auth/internal/service"
	"github.com/vianajose7/faaxis-auth/internal/session"
	"github.com/vianajose7/faaxis-auth/internal/tokens"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Legacy  *session.Store
	Cookies CookieWriter
}

type credentialsRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req.Email, req.Password, service.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		metrics.Registrations.WithLabelValues("failure").Inc()
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrUnavailable):
			return echo.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		default:
			l.Error("register failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
	}
	metrics.Registrations.WithLabelValues("success").Inc()

	h.setSession(c, res)
	return c.JSON(http.StatusOK, echo.Map{
		"user":  res.User.Public(),
		"token": res.Token,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		default:
			l.Error("login failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
	}
	metrics.Logins.WithLabelValues("success").Inc()

	h.setSession(c, res)
	return c.JSON(http.StatusOK, echo.Map{
		"user":  res.User.Public(),
		"token": res.Token,
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	user, err := h.Svc.CurrentUser(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.clearSession(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user.Public()})
}

// LogOut is idempotent: it clears whatever is present and reports success
// whether or not an active session existed.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if legacyCookie, err := c.Cookie(tokens.LegacyCookieName); err == nil && h.Legacy != nil {
		h.Legacy.Delete(legacyCookie.Value)
		c.SetCookie(h.Cookies.Delete(tokens.LegacyCookieName))
	}

	if id, ok := middleware.UserID(c); ok {
		if user, err := h.Svc.CurrentUser(ctx, id); err == nil {
			h.Svc.Logout(ctx, user)
		}
	}

	h.clearSession(c)
	l.Info("logout")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AuthHTTP) setSession(c echo.Context, res *service.AuthResult) {
	c.SetCookie(h.Cookies.SessionCookie(res.Token, res.TokenExp))
	c.SetCookie(h.Cookies.PresenceCookie(res.TokenExp))
}

func (h *AuthHTTP) clearSession(c echo.Context) {
	c.SetCookie(h.Cookies.Delete(tokens.CookieName))
	c.SetCookie(h.Cookies.Delete(tokens.PresenceCookieName))
}
