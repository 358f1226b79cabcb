package tokens

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vianajose7/faaxis-auth/internal/models"
)

const (
	// Lifetime is the fixed token lifetime. Logout does not revoke issued
	// tokens server-side; expiry is the only hard bound.
	Lifetime = 7 * 24 * time.Hour

	// CookieName carries the token; http-only.
	CookieName = "session_token"
	// PresenceCookieName is readable by page script so the client can
	// cheaply detect "likely authenticated" without the protected cookie.
	PresenceCookieName = "session_present"
	// LegacyCookieName identifies a server-side session from the old stack.
	LegacyCookieName = "connect.sid"

	// refreshThreshold: a token is re-issued only once less than this
	// fraction of its lifetime remains, so ordinary traffic does not
	// rewrite the cookie on every request.
	refreshThreshold = 0.25
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

type SessionClaims struct {
	IsAdmin       bool `json:"is_admin"`
	IsPremium     bool `json:"is_premium"`
	EmailVerified bool `json:"email_verified"`
	jwt.RegisteredClaims
}

// UserID parses the subject. A malformed subject is a structural anomaly,
// reported as ErrInvalid rather than propagated raw.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalid
	}
	return id, nil
}

type Issuer struct {
	Secret []byte
}

func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}
	return &Issuer{Secret: secret}, nil
}

// Issue signs a session token for u. Role flags are copied into the claims
// at issuance time and trusted until expiry.
func (i *Issuer) Issue(u *models.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(Lifetime)
	claims := SessionClaims{
		IsAdmin:       u.IsAdmin,
		IsPremium:     u.IsPremium,
		EmailVerified: u.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry. An expired token is ErrExpired; any
// other failure, including wrong algorithm, bad signature, a missing or
// non-UUID subject, is ErrInvalid.
func (i *Issuer) Verify(tokenStr string) (*SessionClaims, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalid
	}
	return &claims, nil
}

// NeedsRefresh reports whether a verified token should be transparently
// re-issued to slide the session window.
func NeedsRefresh(claims *SessionClaims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	remaining := claims.ExpiresAt.Time.Sub(now)
	return remaining > 0 && remaining < time.Duration(refreshThreshold*float64(Lifetime))
}

// FromRequest extracts the token string. The bearer header takes priority
// over the cookie; the order is the same on every request.
func FromRequest(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if v, ok := strings.CutPrefix(h, "Bearer "); ok && v != "" {
			return v, true
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}
