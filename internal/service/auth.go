package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/crypto"
	"github.com/gilbertouk/gamer-support/internal/model"
	"github.com/gilbertouk/gamer-support/internal/repository"
)

const minPasswordLength = 8

type Auth struct {
	users repository.Users
}

func NewAuth(users repository.Users) *Auth {
	return &Auth{users: users}
}

// SignUp registers a new user. The pre-insert lookups give the friendly
// conflict messages; the database unique constraints close the
// check-then-insert race, so a concurrent duplicate still comes back as
// a Conflict.
func (s *Auth) SignUp(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" {
		return model.User{}, apperr.Validation("Username and email are required")
	}
	if len(password) < minPasswordLength {
		return model.User{}, apperr.Validation("Password must be at least 8 characters long")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, apperr.Conflict("Email already in use")
	} else if !apperr.IsNotFound(err) {
		return model.User{}, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return model.User{}, apperr.Conflict("Username already in use")
	} else if !apperr.IsNotFound(err) {
		return model.User{}, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.users.Create(ctx, user)
}

func (s *Auth) SignIn(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return model.User{}, apperr.NotFound("User not found with provided email")
	}
	if err != nil {
		return model.User{}, err
	}
	if !crypto.CheckPassword(user.PasswordHash, password) {
		return model.User{}, apperr.Validation("Invalid credentials")
	}
	return user, nil
}

func (s *Auth) Me(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if apperr.IsNotFound(err) {
		return model.User{}, apperr.NotFound("User not found with provided ID")
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
