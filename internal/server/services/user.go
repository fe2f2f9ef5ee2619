// Package services contains server-side business logic. This file implements
// UserService: registration, credential checks, token minting, and user
// directory lookups.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/auth"
	"github.com/messagely/messagely/internal/server/config"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/repositories/users"
)

// UserService provides the user directory operations:
// - Register: create users
// - Authenticate / Login: verify credentials and mint tokens
// - All / Get: listings and profile lookups
type UserService struct {
	repo                  users.Repository
	hasher                auth.PasswordHasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// RegisterParams carries the five required registration fields. The password
// arrives in the clear and is hashed before it reaches the repository.
type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// NewUserService constructs a UserService from the user repository, the
// password hasher, and server config.
func NewUserService(repo users.Repository, hasher auth.PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{
		repo:                  repo,
		hasher:                hasher,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register hashes the password and stores a new user. A taken username
// surfaces as common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {

	digest, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  p.Username,
		Password:  digest,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate reports whether username/password are valid. It fails closed:
// an unknown username or a wrong password yields (false, nil) and mutates
// nothing. On success the login timestamp is updated before returning; a
// failed timestamp update is surfaced as an error rather than swallowed,
// since a login that cannot be recorded leaves the account inconsistent.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error fetching user: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return false, nil
	}

	if err := s.repo.UpdateLoginTimestamp(ctx, username); err != nil {
		return false, fmt.Errorf("error updating login timestamp: %w", err)
	}

	return true, nil
}

// Login authenticates and mints a bearer token for the username claim.
// Bad credentials map to common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {

	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// All returns the public fields of every user, in store order.
func (s *UserService) All(ctx context.Context) ([]models.UserSummary, error) {
	return s.repo.All(ctx)
}

// Get returns the full user row for username, common.ErrorNotFound if absent.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}
