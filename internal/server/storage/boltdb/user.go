package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nvoronin/passport/internal/models"
	"github.com/nvoronin/passport/internal/server/storage"
)

// CreateUser creates a new user in the storage.
// The uniqueness checks and the insert run in one update transaction,
// so concurrent registrations cannot both succeed for the same email
// or display name.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		emailIdx := tx.Bucket(bucketEmailIdx)
		nameIdx := tx.Bucket(bucketNameIdx)
		users := tx.Bucket(bucketUsers)

		if emailIdx.Get([]byte(user.Email)) != nil {
			return storage.ErrEmailExists
		}
		if nameIdx.Get([]byte(user.DisplayName)) != nil {
			return storage.ErrDisplayNameExists
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put([]byte(user.ID), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := emailIdx.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return fmt.Errorf("failed to save email index: %w", err)
		}
		if err := nameIdx.Put([]byte(user.DisplayName), []byte(user.ID)); err != nil {
			return fmt.Errorf("failed to save display name index: %w", err)
		}

		return nil
	})
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserByIndex(bucketEmailIdx, email)
}

// GetUserByDisplayName retrieves user by display name
func (s *Storage) GetUserByDisplayName(ctx context.Context, displayName string) (*models.User, error) {
	return s.getUserByIndex(bucketNameIdx, displayName)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, []byte(userID))
		return err
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// getUserByIndex ищет id пользователя в index bucket и читает запись
func (s *Storage) getUserByIndex(idxBucket []byte, key string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		userID := tx.Bucket(idxBucket).Get([]byte(key))
		if userID == nil {
			return storage.ErrUserNotFound
		}

		var err error
		user, err = getUser(tx, userID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func getUser(tx *bbolt.Tx, userID []byte) (*models.User, error) {
	data := tx.Bucket(bucketUsers).Get(userID)
	if data == nil {
		return nil, storage.ErrUserNotFound
	}

	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return user, nil
}

// UpdateRefreshToken overwrites the user's current refresh token.
// Read and write happen in the same transaction: concurrent logins for
// one user serialize here instead of losing updates.
func (s *Storage) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		user, err := getUser(tx, []byte(userID))
		if err != nil {
			return err
		}

		user.RefreshToken = refreshToken
		user.UpdatedAt = time.Now()

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := tx.Bucket(bucketUsers).Put([]byte(userID), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		return nil
	})
}
