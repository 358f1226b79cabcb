// Package store abstracts user lookup and creation over two backends: the
// relational primary and an in-memory secondary that keeps the service
// answering during a primary outage.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vianajose7/faaxis-auth/internal/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	// ErrUnavailable classifies connectivity and timeout failures; the
	// fallback store branches on it, callers never see it unless every
	// backend is down.
	ErrUnavailable = errors.New("backend unavailable")
)

// Fields is a partial update; nil members are left untouched.
type Fields struct {
	FirstName     *string
	LastName      *string
	PasswordHash  *string
	IsAdmin       *bool
	IsPremium     *bool
	EmailVerified *bool
}

type CredentialStore interface {
	// FindByEmail is case-insensitive on email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// Create fails with ErrAlreadyExists on a duplicate email; the
	// backend's uniqueness constraint decides, not a pre-check.
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id uuid.UUID, f Fields) (*models.User, error)
}
