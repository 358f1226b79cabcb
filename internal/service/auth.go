package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vianajose7/faaxis-auth/internal/audit"
	"github.com/vianajose7/faaxis-auth/internal/events"
	"github.com/vianajose7/faaxis-auth/internal/hash"
	"github.com/vianajose7/faaxis-auth/internal/logging"
	"github.com/vianajose7/faaxis-auth/internal/models"
	"github.com/vianajose7/faaxis-auth/internal/store"
	"github.com/vianajose7/faaxis-auth/internal/tokens"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the handler message never distinguishes them.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnavailable        = errors.New("service unavailable")
)

type Profile struct {
	FirstName string
	LastName  string
}

type AuthResult struct {
	User     *models.User
	Token    string
	TokenExp time.Time
}

type AuthService struct {
	Store  store.CredentialStore
	Issuer *tokens.Issuer
	Events *events.Producer
	Audit  *audit.Indexer
}

func (s *AuthService) Register(ctx context.Context, email, password string, profile Profile) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("hash failed", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
	}
	if err := s.Store.Create(ctx, &user); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, ErrConflict
		case errors.Is(err, store.ErrUnavailable):
			l.Error("all backends unavailable", "error", err)
			return nil, ErrUnavailable
		default:
			return nil, err
		}
	}

	res, err := s.issue(ctx, &user)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "user_registered", &user)
	l.Info("user registered", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrInvalidCredentials
		case errors.Is(err, store.ErrUnavailable):
			l.Error("all backends unavailable", "error", err)
			return nil, ErrUnavailable
		default:
			return nil, err
		}
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad credentials")
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "user_logged_in", user)
	l.Info("login successful", "user_id", user.ID)
	return res, nil
}

// CurrentUser resolves the principal's fresh record. Token claims stay
// authoritative for role checks until expiry; this is for profile display.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrUnavailable
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, user *models.User) {
	// No server-side token revocation exists; the handlers clear cookies
	// and the client clears its storage. Only the event trail is written.
	if user != nil {
		s.emit(ctx, "user_logged_out", user)
	}
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, exp, err := s.Issuer.Issue(user, time.Now())
	if err != nil {
		logging.FromContext(ctx).Error("token issue failed", "error", err)
		return nil, err
	}
	return &AuthResult{User: user, Token: token, TokenExp: exp}, nil
}

func (s *AuthService) emit(ctx context.Context, eventType string, user *models.User) {
	l := logging.FromContext(ctx)
	e := events.Event{
		Type:   eventType,
		UserID: user.ID,
		Email:  user.Email,
		At:     time.Now(),
	}
	if err := s.Events.Publish(ctx, e); err != nil {
		l.Warn("event publish failed", "type", eventType, "error", err)
	}
	if err := s.Audit.Record(ctx, e); err != nil {
		l.Warn("audit record failed", "type", eventType, "error", err)
	}
}

func validateEmail(email string) error {
	if email == "" {
		return ErrValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrValidation
	}
	return nil
}
