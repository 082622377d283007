package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewErrInternalServerError(cause)

	assert.Equal(t, "internal server error: db down", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "user not found", NewErrUserNotFound().Error())
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewErrInvalidCode())

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.HTTPCode)
	assert.Equal(t, "invalid_code", apiErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestConstructors_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *APIError
		code int
	}{
		{"missing token", NewErrMissingAuthorizationToken(), http.StatusUnauthorized},
		{"invalid token", NewErrInvalidAuthorizationToken(), http.StatusUnauthorized},
		{"expired token", NewErrTokenExpired(), http.StatusUnauthorized},
		{"revoked token", NewErrTokenRevoked(), http.StatusUnauthorized},
		{"bad credentials", NewErrInvalidCredentials(), http.StatusUnauthorized},
		{"forbidden", NewErrForbidden(), http.StatusForbidden},
		{"invalid code", NewErrInvalidCode(), http.StatusForbidden},
		{"user not found", NewErrUserNotFound(), http.StatusNotFound},
		{"product not found", NewErrProductNotFound(), http.StatusNotFound},
		{"missing code", NewErrMissingCode(), http.StatusBadRequest},
		{"validation", NewErrValidationf("%s is required", "name"), http.StatusBadRequest},
		{"email taken", NewErrEmailIsTaken("a@b.c"), http.StatusBadRequest},
		{"incorrect password", NewErrIncorrectPassword(), http.StatusBadRequest},
		{"invalid json", NewErrInvalidJSON(errors.New("eof")), http.StatusBadRequest},
		{"storage", NewErrStorageUnavailable(), http.StatusServiceUnavailable},
		{"internal", NewErrInternalServerError(nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.code, tt.err.HTTPCode)
			assert.NotEmpty(t, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}
