package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// TokenService provides high-level operations for issuing, verifying
// and revoking identity tokens. It composes the TokenManager and an
// optional TokenDenylist.
type TokenService struct {
	manager  model.TokenManager
	denylist model.TokenDenylist
	logger   *logger.Logger
	now      func() time.Time
}

// TokenServiceOption configures TokenService.
type TokenServiceOption func(*TokenService)

// WithTokenClock sets the clock used for revocation TTLs. It should be the
// clock the TokenManager stamps expiries with.
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService creates a TokenService. A nil denylist disables revocation.
func NewTokenService(
	manager model.TokenManager,
	denylist model.TokenDenylist,
	logger *logger.Logger,
	opts ...TokenServiceOption,
) *TokenService {
	s := &TokenService{manager: manager, denylist: denylist, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a new token for the user.
func (s *TokenService) Issue(_ context.Context, userID uuid.UUID) (model.IssuedToken, error) {
	issued, err := s.manager.Generate(userID)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("issue token: %w", err)
	}
	return issued, nil
}

// GetUserID verifies the token and returns the identity it was issued to.
//
// Errors are model.ErrTokenExpired, model.ErrTokenMalformed, model.ErrTokenRevoked
// or a wrapped denylist failure.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.manager.Parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("check token denylist: %w", err)
		}
		if revoked {
			return uuid.Nil, model.ErrTokenRevoked
		}
	}

	return claims.UserID, nil
}

// Revoke puts the token on the denylist until it would have expired anyway.
// Without a denylist, and for tokens that are already expired, it does nothing.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.denylist == nil {
		return nil
	}

	claims, err := s.manager.Parse(token)
	if errors.Is(err, model.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	if claims.ID == "" {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.denylist.Add(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token service: failed to revoke token",
			"user_id", claims.UserID,
			"error", err.Error())
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Debug("Token service: token revoked",
		"user_id", claims.UserID,
		"ttl", ttl)

	return nil
}
