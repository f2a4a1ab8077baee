// Package account registers and authenticates users.
package account

import (
	"errors"
	"fmt"

	"fintrack/internal/auth"
	"fintrack/internal/models"
	"fintrack/internal/storage"
)

// ErrUsernameTaken is returned by Register when the username already exists.
var ErrUsernameTaken = errors.New("username already exists")

// Store is the persistence surface the account service needs.
type Store interface {
	CreateUser(username, passwordHash string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
}

// Service registers and authenticates users against a Store.
type Service struct {
	store Store
}

// NewService creates an account service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a new user with a salted password hash. A duplicate
// username yields ErrUsernameTaken.
func (s *Service) Register(username, password string) (*models.User, error) {
	// Pre-check for a friendlier failure; the unique constraint still covers
	// the race after it.
	if existing, err := s.store.GetUserByUsername(username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(username, hash)
	if err != nil {
		if storage.IsUniqueConstraint(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the user id. A wrong
// password and an unknown username are indistinguishable: both return
// (0, false) with no further detail.
func (s *Service) Authenticate(username, password string) (int64, bool) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil || user == nil {
		return 0, false
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return 0, false
	}
	return user.ID, true
}
