package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// User serves profile reads and updates.
type User struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	logger    *logger.Logger
}

func NewUser(userStore model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *User {
	return &User{userStore: userStore, hasher: hasher, logger: logger}
}

// GetByID returns the user without the password digest.
func (s *User) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user.Sanitized(), nil
}

// UpdateProfile changes name, email or address.
func (s *User) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	if update.Empty() {
		return model.User{}, apierror.NewErrValidation("nothing to update")
	}
	if update.Fullname != nil {
		name := strings.TrimSpace(*update.Fullname)
		if name == "" {
			return model.User{}, apierror.NewErrValidation("fullname must not be blank")
		}
		update.Fullname = &name
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if !validEmail(email) {
			return model.User{}, apierror.NewErrValidationf("%q is not a valid email address", *update.Email)
		}
		update.Email = &email
	}

	user, err := s.userStore.UpdateProfile(ctx, id, update)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.User{}, apierror.NewErrUserNotFound()
	case errors.Is(err, model.ErrConflict):
		return model.User{}, apierror.NewErrEmailIsTaken(*update.Email)
	case err != nil:
		s.logger.Error("User service: failed to update profile",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("User service: profile updated",
		"user_id", id)

	return user.Sanitized(), nil
}

// ChangePassword replaces the digest after checking the current password.
func (s *User) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return apierror.NewErrValidation("current and new password are required")
	}
	if len(next) > maxPasswordBytes {
		return apierror.NewErrValidationf("password must be at most %d bytes", maxPasswordBytes)
	}

	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrUserNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, current) {
		s.logger.Info("User service: incorrect current password",
			"user_id", id)
		return apierror.NewErrIncorrectPassword()
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userStore.UpdatePassword(ctx, id, hash)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrUserNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("User service: password changed",
		"user_id", id)

	return nil
}

// List returns every user, sanitized.
func (s *User) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}
