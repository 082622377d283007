package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Admin promotes users who present the shared secret code.
type Admin struct {
	userStore model.UserStore
	secret    []byte
	logger    *logger.Logger
}

// NewAdmin creates the escalation service. An empty secret rejects every code.
func NewAdmin(userStore model.UserStore, secret string, logger *logger.Logger) *Admin {
	return &Admin{userStore: userStore, secret: []byte(secret), logger: logger}
}

// Escalate sets the admin flag of the user when code matches the secret.
// The flag is only ever raised, so repeating a successful call is harmless.
func (a *Admin) Escalate(ctx context.Context, userID uuid.UUID, code string) (model.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.User{}, apierror.NewErrMissingCode()
	}

	if !a.codeMatches(code) {
		a.logger.Warn("Admin service: rejected secret code",
			"user_id", userID)
		return model.User{}, apierror.NewErrInvalidCode()
	}

	user, err := a.userStore.SetAdmin(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound()
	}
	if err != nil {
		a.logger.Error("Admin service: failed to set admin flag",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to set admin flag: %w", err)
	}

	a.logger.Info("Admin service: user promoted to admin",
		"user_id", userID)

	return user.Sanitized(), nil
}

func (a *Admin) codeMatches(code string) bool {
	if len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), a.secret) == 1
}
