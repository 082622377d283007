package handler

import (
	"net/http"

	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Admin serves the /admins routes.
type Admin struct {
	adminService   AdminService
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
	debug          bool
}

func NewAdmin(
	adminService AdminService,
	userService UserService,
	contextManager model.ContextManager,
	logger *logger.Logger,
	debug bool,
) *Admin {
	return &Admin{
		adminService:   adminService,
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
		debug:          debug,
	}
}

type verifyRequest struct {
	SecretCode string `json:"secretCode"`
}

// Verify promotes the current user when the secret code matches.
func (h *Admin) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	var req verifyRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	updated, err := h.adminService.Escalate(r.Context(), user.ID, req.SecretCode)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    newUserView(updated),
	})
}

// Users lists all accounts. Admin only.
func (h *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   views,
	})
}
