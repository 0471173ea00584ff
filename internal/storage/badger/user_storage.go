package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type userStorage struct {
	store  *Store
	logger *common.Logger
}

// NewUserStorage creates a new UserStore backed by BadgerHold.
func NewUserStorage(store *Store, logger *common.Logger) *userStorage {
	return &userStorage{store: store, logger: logger}
}

// Get returns the user, or nil when no such account exists.
func (s *userStorage) Get(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.store.db.Get(userID, &user)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

// GetByEmail returns the user with the given email, or nil when none matches.
func (s *userStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var users []models.User
	query := badgerhold.Where("Email").Eq(strings.ToLower(email)).Index("Email")
	if err := s.store.db.Find(&users, query); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *userStorage) Save(_ context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	user.UpdatedAt = time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if err := s.store.db.Upsert(user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	s.logger.Debug().Str("user", user.UserID).Msg("User saved")
	return nil
}

func (s *userStorage) Delete(_ context.Context, userID string) error {
	err := s.store.db.Delete(userID, models.User{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	s.logger.Debug().Str("user", userID).Msg("User deleted")
	return nil
}

func (s *userStorage) List(_ context.Context) ([]string, error) {
	var users []models.User
	if err := s.store.db.Find(&users, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.UserID
	}
	return ids, nil
}
