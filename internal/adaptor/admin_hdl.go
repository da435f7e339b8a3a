package adaptor

import (
	"net/http"

	"reuniteme/internal/dto/request"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// Login handles POST /api/admins/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "admin login")
		return
	}

	setSessionCookie(w, resp.Token, resp.ExpiresAt)
	utils.ResponseSuccess(w, "login successful", resp)
}

// Me handles GET /api/admins/me
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	admin, err := h.service.Me(r.Context(), adminID)
	if err != nil {
		handleServiceError(w, h.log, err, "get admin profile")
		return
	}

	utils.ResponseSuccess(w, "Admin retrieved successfully", admin)
}

// Logout handles GET /api/admins/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	utils.ResponseSuccess(w, "logout successful!", nil)
}

// ListUsers handles GET /api/admins/users?page=1&per_page=10
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))

	users, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// GetUser handles GET /api/admins/users/{userId}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// UpdateUser handles PUT /api/admins/users/{userId} and PUT /api/admins/users/update/{userId}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req request.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "userId"), &req); err != nil {
		handleServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", nil)
}

// DeleteUser handles DELETE /api/admins/users/{userId}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	deleted, err := h.service.DeleteUser(r.Context(), adminID, chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	if !deleted {
		utils.ResponseSuccess(w, usecase.MsgAlreadyDeleted, nil)
		return
	}
	utils.ResponseSuccess(w, "User deleted successfully!", nil)
}

// ActivateUser handles GET /api/admins/users/activate/{userId}
func (h *AdminHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	activated, err := h.service.ActivateUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "activate user")
		return
	}

	if !activated {
		utils.ResponseSuccess(w, "Account is already active", nil)
		return
	}
	utils.ResponseSuccess(w, "User activated successfully", nil)
}
