package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvoronin/passport/internal/models"
	"github.com/nvoronin/passport/internal/server/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func testUser(id, email, displayName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: "hash-" + id,
		RefreshToken: "refresh-" + id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStorage_CreateUser(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u1", "a@x.com", "Alice")))

	t.Run("duplicate email", func(t *testing.T) {
		err := s.CreateUser(ctx, testUser("u2", "a@x.com", "Alicia"))
		assert.ErrorIs(t, err, storage.ErrEmailExists)
	})

	t.Run("duplicate display name", func(t *testing.T) {
		err := s.CreateUser(ctx, testUser("u2", "b@x.com", "Alice"))
		assert.ErrorIs(t, err, storage.ErrDisplayNameExists)
	})
}

func TestStorage_GetUser(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u1", "a@x.com", "Alice")))

	t.Run("by email", func(t *testing.T) {
		user, err := s.GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.Equal(t, "hash-u1", user.PasswordHash)
		assert.Equal(t, "refresh-u1", user.RefreshToken)
	})

	t.Run("by display name", func(t *testing.T) {
		user, err := s.GetUserByDisplayName(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("by id", func(t *testing.T) {
		user, err := s.GetUserByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetUserByEmail(ctx, "missing@x.com")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)

		_, err = s.GetUserByDisplayName(ctx, "Nobody")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)

		_, err = s.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("email is case sensitive", func(t *testing.T) {
		_, err := s.GetUserByEmail(ctx, "A@X.COM")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestStorage_UpdateRefreshToken(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u1", "a@x.com", "Alice")))

	require.NoError(t, s.UpdateRefreshToken(ctx, "u1", "rotated"))

	user, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "rotated", user.RefreshToken)

	t.Run("unknown user", func(t *testing.T) {
		err := s.UpdateRefreshToken(ctx, "missing", "rotated")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}
