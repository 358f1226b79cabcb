package httpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vianajose7/faaxis-auth/internal/models"
	"github.com/vianajose7/faaxis-auth/internal/store"
)

// unreachableStore stands in for a primary whose every call fails with a
// connectivity error.
type unreachableStore struct{}

func (unreachableStore) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}

func (unreachableStore) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}

func (unreachableStore) Create(context.Context, *models.User) error {
	return fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}

func (unreachableStore) Update(context.Context, uuid.UUID, store.Fields) (*models.User, error) {
	return nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}
