package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vianajose7/faaxis-auth/internal/models"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Each sqlite :memory: connection is its own database; keep the pool
	// at one so every query sees the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewGormStore(db)
}

func TestGormStore_CreateAndFind(t *testing.T) {
	t.Parallel()

	s := newSQLiteStore(t)
	ctx := context.Background()

	u := &models.User{Email: "Advisor@Example.com", PasswordHash: "h", FirstName: "Jane"}
	require.NoError(t, s.Create(ctx, u))
	assert.Equal(t, "advisor@example.com", u.Email)

	found, err := s.FindByEmail(ctx, "ADVISOR@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "Jane", found.FirstName)

	byID, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	_, err = s.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_DuplicateEmail_ConstraintDecides(t *testing.T) {
	t.Parallel()

	s := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.User{Email: "a@example.com", PasswordHash: "h"}))

	err := s.Create(ctx, &models.User{Email: "A@Example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var count int64
	require.NoError(t, s.DB.Model(&models.User{}).Where("email = ?", "a@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGormStore_Update(t *testing.T) {
	t.Parallel()

	s := newSQLiteStore(t)
	ctx := context.Background()

	u := &models.User{Email: "a@example.com", PasswordHash: "h"}
	require.NoError(t, s.Create(ctx, u))

	verified := true
	last := "Doe"
	updated, err := s.Update(ctx, u.ID, Fields{EmailVerified: &verified, LastName: &last})
	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, "a@example.com", updated.Email)
}
