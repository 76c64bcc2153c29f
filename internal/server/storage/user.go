package storage

import (
	"context"

	"github.com/nvoronin/passport/internal/models"
)

// UserStorage defines interface for user data persistence.
// Implementations must guarantee atomic check-and-insert on CreateUser
// and per-record atomicity on UpdateRefreshToken: concurrent logins for
// the same user must not interleave their refresh token writes.
type UserStorage interface {
	// CreateUser creates a new user in the storage.
	// Returns ErrEmailExists or ErrDisplayNameExists on uniqueness violation.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByDisplayName retrieves user by display name.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByDisplayName(ctx context.Context, displayName string) (*models.User, error)

	// GetUserByID retrieves user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateRefreshToken overwrites the user's current refresh token,
	// invalidating every previously issued one.
	// Returns ErrUserNotFound if user doesn't exist.
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
}
