package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// TokenCookieName is the cookie carrying the identity token.
const TokenCookieName = "token"

// TokenService resolves user ID from identity tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// UserService loads the user a token was issued to.
type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

// Authenticate validates the token cookie and attaches the current user to
// the request context.
type Authenticate struct {
	tokenService   TokenService
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
	debug          bool
}

// NewAuthenticate creates a new Authenticate middleware instance. With debug
// set, internal failures are described in the response.
func NewAuthenticate(
	tokenService TokenService,
	userService UserService,
	contextManager model.ContextManager,
	logger *logger.Logger,
	debug bool,
) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
		debug:          debug,
	}
}

// Handle rejects the request unless it carries a valid token of an existing user.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticateUser(r)
		if err != nil {
			response.WriteError(w, err, m.debug)
			return
		}

		ctx := m.contextManager.SetUserToContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Authenticate) authenticateUser(r *http.Request) (model.User, error) {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return model.User{}, apierror.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokenService.GetUserID(r.Context(), cookie.Value)
	if err != nil {
		return model.User{}, m.tokenError(r, err)
	}
	if userID == uuid.Nil {
		return model.User{}, apierror.NewErrInvalidAuthorizationToken()
	}

	user, err := m.userService.GetByID(r.Context(), userID)
	if err != nil {
		if _, ok := apierror.As(err); !ok {
			m.logger.Error("Authenticate middleware: failed to load user",
				"user_id", userID,
				"error", err.Error())
		}
		return model.User{}, err
	}

	return user.Sanitized(), nil
}

func (m *Authenticate) tokenError(r *http.Request, err error) error {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return apierror.NewErrTokenExpired()
	case errors.Is(err, model.ErrTokenRevoked):
		return apierror.NewErrTokenRevoked()
	case errors.Is(err, model.ErrTokenMalformed):
		m.logger.Debug("Authenticate middleware: rejected token",
			"path", r.URL.Path,
			"error", err.Error())
		return apierror.NewErrInvalidAuthorizationToken()
	default:
		m.logger.Error("Authenticate middleware: token verification failed",
			"error", err.Error())
		return apierror.NewErrInternalServerError(err)
	}
}
