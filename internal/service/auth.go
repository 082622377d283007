package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Auth registers users and opens and closes their sessions.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register creates a non-admin user and returns it without the password digest.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	fullname := strings.TrimSpace(params.Fullname)
	email := normalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if fullname == "" || email == "" || params.Password == "" {
		return model.User{}, apierror.NewErrValidation("fullname, email and password are required")
	}
	if !validEmail(email) {
		return model.User{}, apierror.NewErrValidationf("%q is not a valid email address", params.Email)
	}
	if len(params.Password) > maxPasswordBytes {
		return model.User{}, apierror.NewErrValidationf("password must be at most %d bytes", maxPasswordBytes)
	}

	existingUser, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.User{}, apierror.NewErrEmailIsTaken(email)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		return model.User{}, apierror.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", email,
		"user_id", user.ID)

	return user.Sanitized(), nil
}

// Login checks the credentials and issues a token.
// Unknown email and wrong password yield the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, model.IssuedToken, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	if email == "" || password == "" {
		return model.User{}, model.IssuedToken{}, apierror.NewErrValidation("email and password are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		return model.User{}, model.IssuedToken{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.User{}, model.IssuedToken{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Compare(user.PasswordHash, password) {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return model.User{}, model.IssuedToken{}, apierror.NewErrInvalidCredentials()
	}

	issued, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, model.IssuedToken{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return user.Sanitized(), issued, nil
}

// Logout revokes the presented token.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.tokenService.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
