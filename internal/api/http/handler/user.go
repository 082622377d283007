package handler

import (
	"net/http"

	"github.com/dtroode/storefront-server/internal/api/http/middleware"
	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// User serves the /users routes.
type User struct {
	authService    AuthService
	userService    UserService
	adminService   AdminService
	contextManager model.ContextManager
	cookies        CookieConfig
	logger         *logger.Logger
	debug          bool
}

func NewUser(
	authService AuthService,
	userService UserService,
	adminService AdminService,
	contextManager model.ContextManager,
	cookies CookieConfig,
	logger *logger.Logger,
	debug bool,
) *User {
	return &User{
		authService:    authService,
		userService:    userService,
		adminService:   adminService,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
		debug:          debug,
	}
}

type registerRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type settingsRequest struct {
	Code     *string        `json:"code"`
	Fullname *string        `json:"fullname"`
	Email    *string        `json:"email"`
	Address  *model.Address `json:"address"`
}

type changePasswordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

func (h *User) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	user, err := h.authService.Register(r.Context(), model.RegisterParams{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    newUserView(user),
	})
}

// Login verifies credentials and sets the session cookie.
func (h *User) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	user, issued, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	setTokenCookie(w, r, h.cookies, issued.Token, issued.ExpiresAt)
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"user":      newUserView(user),
		"expiresAt": issued.ExpiresAt,
	})
}

// Logout revokes the session token and clears the cookie.
func (h *User) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.TokenCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			handleError(w, r, h.logger, err, h.debug)
			return
		}
	}

	clearTokenCookie(w, r, h.cookies)
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "logged out",
	})
}

func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    newUserView(user),
	})
}

// Settings either applies a secret code or updates profile fields.
// The two forms cannot be combined in one request.
func (h *User) Settings(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	var req settingsRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	update := model.ProfileUpdate{
		Fullname: req.Fullname,
		Email:    req.Email,
		Address:  req.Address,
	}

	if req.Code != nil {
		if !update.Empty() {
			handleError(w, r, h.logger,
				apierror.NewErrValidation("secret code cannot be combined with profile changes"), h.debug)
			return
		}

		updated, err := h.adminService.Escalate(r.Context(), user.ID, *req.Code)
		if err != nil {
			handleError(w, r, h.logger, err, h.debug)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "admin privileges granted",
			"user":    newUserView(updated),
		})
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "profile updated",
		"user":    newUserView(updated),
	})
}

func (h *User) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	var req changePasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, req.Current, req.New); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "password changed",
	})
}
