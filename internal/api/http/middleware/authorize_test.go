package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	httpcontext "github.com/dtroode/storefront-server/internal/api/http/context"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestAuthorize_RequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no user in context",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "missing_token",
		},
		{
			name:       "regular user",
			user:       &model.User{ID: uuid.New(), IsAdmin: false},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "admin",
			user:       &model.User{ID: uuid.New(), IsAdmin: true},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := httpcontext.NewManager()
			mw := NewAuthorize(cm, testutil.MakeNoopLogger())

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.user != nil {
				req = req.WithContext(cm.SetUserToContext(req.Context(), *tt.user))
			}
			rec := httptest.NewRecorder()

			mw.RequireAdmin(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode == "" {
				assert.True(t, called)
				return
			}
			assert.False(t, called)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
		})
	}
}
