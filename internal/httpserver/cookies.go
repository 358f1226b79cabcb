package httpserver

import (
	"net/http"
	"time"

	"github.com/vianajose7/faaxis-auth/internal/tokens"
)

// CookieWriter builds the session cookie pair: the http-only token cookie
// and the script-readable presence flag.
type CookieWriter struct {
	Secure bool
}

func (w CookieWriter) SessionCookie(token string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     tokens.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (w CookieWriter) PresenceCookie(exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     tokens.PresenceCookieName,
		Value:    "1",
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: false,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (w CookieWriter) Delete(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: name != tokens.PresenceCookieName,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
