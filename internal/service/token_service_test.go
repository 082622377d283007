package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/logger"
	servermocks "github.com/dtroode/storefront-server/internal/mocks"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/token"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	manager.On("Generate", userID).Return(model.IssuedToken{Token: "tok", ID: "jti-1"}, nil).Once()

	svc := NewTokenService(manager, nil, logger.New(0))

	issued, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "tok", issued.Token)
	assert.Equal(t, "jti-1", issued.ID)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	manager := servermocks.NewTokenManager(t)
	manager.On("Generate", mock.Anything).Return(model.IssuedToken{}, assert.AnError).Once()

	svc := NewTokenService(manager, nil, logger.New(0))

	_, err := svc.Issue(context.Background(), uuid.New())
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetUserID(t *testing.T) {
	userID := uuid.New()
	claims := model.TokenClaims{ID: "jti", UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name      string
		parseErr  error
		denylist  bool
		contains  bool
		checkErr  error
		wantErr   error
		wantAnErr bool
	}{
		{name: "valid without denylist"},
		{name: "valid with denylist", denylist: true},
		{name: "expired", parseErr: model.ErrTokenExpired, wantErr: model.ErrTokenExpired},
		{name: "malformed", parseErr: model.ErrTokenMalformed, wantErr: model.ErrTokenMalformed},
		{name: "revoked", denylist: true, contains: true, wantErr: model.ErrTokenRevoked},
		{name: "denylist failure", denylist: true, checkErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			manager := servermocks.NewTokenManager(t)
			if tt.parseErr != nil {
				manager.On("Parse", "tok").Return(model.TokenClaims{}, tt.parseErr).Once()
			} else {
				manager.On("Parse", "tok").Return(claims, nil).Once()
			}

			var denylist model.TokenDenylist
			if tt.denylist {
				dl := servermocks.NewTokenDenylist(t)
				dl.On("Contains", ctx, "jti").Return(tt.contains, tt.checkErr).Once()
				denylist = dl
			}

			svc := NewTokenService(manager, denylist, logger.New(0))

			got, err := svc.GetUserID(ctx, "tok")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, uuid.Nil, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, got)
		})
	}
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	manager := servermocks.NewTokenManager(t)
	denylist := servermocks.NewTokenDenylist(t)

	manager.On("Parse", "tok").Return(model.TokenClaims{
		ID:        "jti",
		UserID:    uuid.New(),
		ExpiresAt: now.Add(30 * time.Minute),
	}, nil).Once()
	denylist.On("Add", ctx, "jti", 30*time.Minute).Return(nil).Once()

	svc := NewTokenService(manager, denylist, logger.New(0), WithTokenClock(func() time.Time { return now }))

	require.NoError(t, svc.Revoke(ctx, "tok"))
}

func TestTokenService_Revoke_UsesInjectedClock(t *testing.T) {
	ctx := context.Background()
	// Far from the wall clock so a real-clock TTL would be negative.
	clock := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	manager := token.NewJWT("secret", token.WithClock(func() time.Time { return clock }), token.WithTTL(time.Hour))
	issued, err := manager.Generate(uuid.New())
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)

	denylist := servermocks.NewTokenDenylist(t)
	denylist.On("Add", ctx, issued.ID, 45*time.Minute).Return(nil).Once()

	svc := NewTokenService(manager, denylist, logger.New(0), WithTokenClock(func() time.Time { return clock }))

	require.NoError(t, svc.Revoke(ctx, issued.Token))
}

func TestTokenService_Revoke_NoDenylist(t *testing.T) {
	manager := servermocks.NewTokenManager(t)

	svc := NewTokenService(manager, nil, logger.New(0))

	require.NoError(t, svc.Revoke(context.Background(), "tok"))
	manager.AssertNotCalled(t, "Parse", mock.Anything)
}

func TestTokenService_Revoke_ExpiredToken(t *testing.T) {
	manager := servermocks.NewTokenManager(t)
	denylist := servermocks.NewTokenDenylist(t)

	manager.On("Parse", "tok").Return(model.TokenClaims{}, model.ErrTokenExpired).Once()

	svc := NewTokenService(manager, denylist, logger.New(0))

	require.NoError(t, svc.Revoke(context.Background(), "tok"))
	denylist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenService_Revoke_DenylistError(t *testing.T) {
	ctx := context.Background()
	manager := servermocks.NewTokenManager(t)
	denylist := servermocks.NewTokenDenylist(t)

	manager.On("Parse", "tok").Return(model.TokenClaims{
		ID:        "jti",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	denylist.On("Add", ctx, "jti", mock.AnythingOfType("time.Duration")).Return(assert.AnError).Once()

	svc := NewTokenService(manager, denylist, logger.New(0))

	require.ErrorIs(t, svc.Revoke(ctx, "tok"), assert.AnError)
}
