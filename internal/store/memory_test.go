package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vianajose7/faaxis-auth/internal/models"
)

func TestMemoryStore_CreateAndFind(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	u := &models.User{Email: "Advisor@Example.com", PasswordHash: "h"}
	require.NoError(t, s.Create(ctx, u))
	require.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "advisor@example.com", u.Email)

	// Lookup ignores case.
	found, err := s.FindByEmail(ctx, "ADVISOR@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	byID, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	_, err = s.FindByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.User{Email: "a@example.com"}))
	err := s.Create(ctx, &models.User{Email: "A@EXAMPLE.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStore_ConcurrentCreate_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Create(ctx, &models.User{Email: "race@example.com"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyExists)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestMemoryStore_Update(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	u := &models.User{Email: "a@example.com"}
	require.NoError(t, s.Create(ctx, u))

	first := "Jane"
	premium := true
	updated, err := s.Update(ctx, u.ID, Fields{FirstName: &first, IsPremium: &premium})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.True(t, updated.IsPremium)

	// Untouched fields survive a partial update.
	assert.Equal(t, u.Email, updated.Email)

	_, err = s.Update(ctx, uuid.New(), Fields{FirstName: &first})
	assert.ErrorIs(t, err, ErrNotFound)
}
