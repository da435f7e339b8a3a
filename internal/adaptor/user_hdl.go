package adaptor

import (
	"net/http"

	"reuniteme/internal/dto/request"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	profile, err := h.service.Me(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdatePhone handles PUT /api/users/me
func (h *UserHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.UpdatePhoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.UpdatePhone(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update phone")
		return
	}

	utils.ResponseSuccess(w, msg, nil)
}

// DeleteMe handles DELETE /api/users/me. The session cookie is cleared either way.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	deleted, err := h.service.DeleteMe(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "delete account")
		return
	}

	clearSessionCookie(w)
	if !deleted {
		utils.ResponseSuccess(w, usecase.MsgAlreadyDeleted, nil)
		return
	}
	utils.ResponseSuccess(w, "User deleted successfully!", nil)
}
