package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/model"
)

// DefaultTTL is the lifetime of an identity token.
const DefaultTTL = 24 * time.Hour

// Claims represents JWT claims with the user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
	parser    *jwt.Parser
}

var _ model.TokenManager = (*JWT)(nil)

// Option configures JWT.
type Option func(*JWT)

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(j *JWT) {
		if ttl > 0 {
			j.ttl = ttl
		}
	}
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, opts ...Option) *JWT {
	j := &JWT{
		secretKey: []byte(secretKey),
		ttl:       DefaultTTL,
		now:       time.Now,
		// Expiry is checked by Parse itself so that it can be strict and
		// reported ahead of signature problems.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// TTL returns the lifetime of issued tokens.
func (j *JWT) TTL() time.Duration {
	return j.ttl
}

// Generate creates a signed token for the user that expires after the TTL.
func (j *JWT) Generate(userID uuid.UUID) (model.IssuedToken, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return model.IssuedToken{
		Token:     tokenString,
		ID:        jti,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Parse validates the token and extracts its claims.
//
// It returns model.ErrTokenExpired when the embedded expiry has passed and
// model.ErrTokenMalformed for anything that cannot be decoded or verified.
func (j *JWT) Parse(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, j.keyFunc)

	if claims.ExpiresAt != nil && j.now().After(claims.ExpiresAt.Time) {
		return model.TokenClaims{}, model.ErrTokenExpired
	}
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %w", model.ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing exp claim", model.ErrTokenMalformed)
	}
	if claims.UserID == uuid.Nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing user id", model.ErrTokenMalformed)
	}

	tc := model.TokenClaims{
		ID:        claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	return tc, nil
}

func (j *JWT) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
	}
	if len(j.secretKey) == 0 {
		return nil, errors.New("empty signing key")
	}
	return j.secretKey, nil
}
