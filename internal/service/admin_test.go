package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/storefront-server/internal/mocks"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestAdmin_Escalate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := servermocks.NewUserStore(t)
	store.On("SetAdmin", ctx, id).Return(model.User{ID: id, IsAdmin: true, PasswordHash: []byte("x")}, nil).Once()

	svc := NewAdmin(store, "1234", testutil.MakeNoopLogger())

	user, err := svc.Escalate(ctx, id, " 1234 ")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Nil(t, user.PasswordHash)
}

func TestAdmin_Escalate_Idempotent(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := servermocks.NewUserStore(t)
	store.On("SetAdmin", ctx, id).Return(model.User{ID: id, IsAdmin: true}, nil).Twice()

	svc := NewAdmin(store, "1234", testutil.MakeNoopLogger())

	for i := 0; i < 2; i++ {
		user, err := svc.Escalate(ctx, id, "1234")
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
	}
}

func TestAdmin_Escalate_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		secret string
		code   string
		status int
		errMsg string
	}{
		{name: "empty code", secret: "1234", code: "", status: http.StatusBadRequest, errMsg: "missing_code"},
		{name: "whitespace code", secret: "1234", code: "   ", status: http.StatusBadRequest, errMsg: "missing_code"},
		{name: "wrong code", secret: "1234", code: "0000", status: http.StatusForbidden, errMsg: "invalid_code"},
		{name: "prefix of secret", secret: "1234", code: "123", status: http.StatusForbidden, errMsg: "invalid_code"},
		{name: "case differs", secret: "Secret", code: "secret", status: http.StatusForbidden, errMsg: "invalid_code"},
		{name: "no secret configured", secret: "", code: "anything", status: http.StatusForbidden, errMsg: "invalid_code"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := servermocks.NewUserStore(t)
			svc := NewAdmin(store, tt.secret, testutil.MakeNoopLogger())

			_, err := svc.Escalate(context.Background(), uuid.New(), tt.code)
			requireAPIError(t, err, tt.status, tt.errMsg)
			store.AssertNotCalled(t, "SetAdmin", mock.Anything, mock.Anything)
		})
	}
}

func TestAdmin_Escalate_UserVanished(t *testing.T) {
	store := servermocks.NewUserStore(t)
	store.On("SetAdmin", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound).Once()

	svc := NewAdmin(store, "1234", testutil.MakeNoopLogger())

	_, err := svc.Escalate(context.Background(), uuid.New(), "1234")
	requireAPIError(t, err, http.StatusNotFound, "user_not_found")
}

func TestAdmin_Escalate_StoreFailure(t *testing.T) {
	store := servermocks.NewUserStore(t)
	store.On("SetAdmin", mock.Anything, mock.Anything).Return(model.User{}, assert.AnError).Once()

	svc := NewAdmin(store, "1234", testutil.MakeNoopLogger())

	_, err := svc.Escalate(context.Background(), uuid.New(), "1234")
	require.ErrorIs(t, err, assert.AnError)
}
