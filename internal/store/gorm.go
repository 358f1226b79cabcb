package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vianajose7/faaxis-auth/internal/models"
)

// GormStore is the relational backend. With TranslateError enabled on the
// gorm.DB, unique violations surface as gorm.ErrDuplicatedKey regardless of
// driver, which keeps sqlite-backed tests honest about the Postgres behavior.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return &user, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return &user, nil
}

func (s *GormStore) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return classify(err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, id uuid.UUID, f Fields) (*models.User, error) {
	updates := map[string]any{}
	if f.FirstName != nil {
		updates["first_name"] = *f.FirstName
	}
	if f.LastName != nil {
		updates["last_name"] = *f.LastName
	}
	if f.PasswordHash != nil {
		updates["password_hash"] = *f.PasswordHash
	}
	if f.IsAdmin != nil {
		updates["is_admin"] = *f.IsAdmin
	}
	if f.IsPremium != nil {
		updates["is_premium"] = *f.IsPremium
	}
	if f.EmailVerified != nil {
		updates["email_verified"] = *f.EmailVerified
	}

	if len(updates) > 0 {
		res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

// classify folds everything that is not a domain condition into
// ErrUnavailable so the fallback store can branch on a single sentinel.
// The driver detail is preserved for the logs.
func classify(err error) error {
	return errors.Join(ErrUnavailable, err)
}
