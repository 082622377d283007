// Package handler implements the REST endpoints.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, model.IssuedToken, error)
	Logout(ctx context.Context, token string) error
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	List(ctx context.Context) ([]model.User, error)
}

type AdminService interface {
	Escalate(ctx context.Context, userID uuid.UUID, code string) (model.User, error)
}

type ProductService interface {
	List(ctx context.Context, category string) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (model.Product, error)
	Create(ctx context.Context, params model.CreateProductParams) (model.Product, error)
	SetImage(ctx context.Context, id uuid.UUID, r io.Reader, size int64, contentType string) (model.Product, error)
	OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
}

// handleError logs unexpected failures and renders err.
func handleError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, debug bool) {
	if _, ok := apierror.As(err); !ok {
		log.Error("HTTP handler: request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}
	response.WriteError(w, err, debug)
}

// currentUser returns the identity attached by the authentication middleware.
func currentUser(r *http.Request, cm model.ContextManager) (model.User, error) {
	user, ok := cm.GetUserFromContext(r.Context())
	if !ok {
		return model.User{}, apierror.NewErrMissingAuthorizationToken()
	}
	return user, nil
}
