package middleware

import (
	"net/http"

	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Authorize guards routes that need more than an authenticated user.
// It must run after Authenticate.
type Authorize struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthorize(contextManager model.ContextManager, logger *logger.Logger) *Authorize {
	return &Authorize{contextManager: contextManager, logger: logger}
}

// RequireAdmin lets only administrators through.
func (m *Authorize) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.contextManager.GetUserFromContext(r.Context())
		if !ok {
			response.WriteError(w, apierror.NewErrMissingAuthorizationToken(), false)
			return
		}

		if err := model.RequireAdmin(user); err != nil {
			m.logger.Info("Authorize middleware: admin route denied",
				"user_id", user.ID,
				"path", r.URL.Path)
			response.WriteError(w, apierror.NewErrForbidden(), false)
			return
		}

		next.ServeHTTP(w, r)
	})
}
