package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vianajose7/faaxis-auth/internal/logging"
	"github.com/vianajose7/faaxis-auth/internal/metrics"
	"github.com/vianajose7/faaxis-auth/internal/models"
)

// FallbackStore prefers the primary backend and retries reads and creates
// against the secondary when the primary is unreachable. Updates are
// primary-only. A user created through the fallback path lives only in the
// secondary until the process restarts; that availability-over-consistency
// trade is deliberate and logged.
type FallbackStore struct {
	Primary   CredentialStore
	Secondary CredentialStore
}

func NewFallbackStore(primary, secondary CredentialStore) *FallbackStore {
	return &FallbackStore{Primary: primary, Secondary: secondary}
}

func (s *FallbackStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.Primary.FindByEmail(ctx, email)
	if err == nil || !errors.Is(err, ErrUnavailable) {
		return u, err
	}
	logging.FromContext(ctx).Warn("primary store unavailable, falling back",
		"op", "find_by_email", "error", err)
	metrics.StoreFallbacks.Inc()
	return s.Secondary.FindByEmail(ctx, email)
}

func (s *FallbackStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Primary.FindByID(ctx, id)
	if err == nil || !errors.Is(err, ErrUnavailable) {
		return u, err
	}
	logging.FromContext(ctx).Warn("primary store unavailable, falling back",
		"op", "find_by_id", "error", err)
	metrics.StoreFallbacks.Inc()
	return s.Secondary.FindByID(ctx, id)
}

func (s *FallbackStore) Create(ctx context.Context, u *models.User) error {
	err := s.Primary.Create(ctx, u)
	if err == nil || !errors.Is(err, ErrUnavailable) {
		return err
	}
	logging.FromContext(ctx).Warn("primary store unavailable, creating in secondary",
		"op", "create", "error", err)
	metrics.StoreFallbacks.Inc()
	return s.Secondary.Create(ctx, u)
}

func (s *FallbackStore) Update(ctx context.Context, id uuid.UUID, f Fields) (*models.User, error) {
	return s.Primary.Update(ctx, id, f)
}
