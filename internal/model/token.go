package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates signed identity tokens.
type TokenManager interface {
	Generate(userID uuid.UUID) (IssuedToken, error)
	Parse(token string) (TokenClaims, error)
}

// TokenDenylist keeps identifiers of tokens revoked before their expiry.
type TokenDenylist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// IssuedToken is a freshly signed token.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenClaims is the verified payload of a token.
type TokenClaims struct {
	ID        string
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
