package adaptor

import (
	"net/http"

	"reuniteme/internal/dto/request"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Register(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "User created successfully. Please verify your account by the link sent to your email", nil)
}

// ResendVerification handles POST /api/users/verify/resend
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req request.ResendVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResendVerification(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "resend verification")
		return
	}

	utils.ResponseSuccess(w, "Verification link sent. Please check your email", nil)
}

// Verify handles GET|POST /api/users/verify/{token}
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleServiceError(w, h.log, err, "verify email")
		return
	}

	if resp.RedirectTo == "" {
		utils.ResponseSuccess(w, usecase.MsgEmailAlreadyVerified, nil)
		return
	}

	utils.ResponseCreated(w, "Your account verified successfully!", resp)
}

// CreatePassword handles POST /api/users/verified/create-password/{userId}
func (h *AuthHandler) CreatePassword(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.CreatePassword(r.Context(), chi.URLParam(r, "userId"), &req); err != nil {
		handleServiceError(w, h.log, err, "create password")
		return
	}

	utils.ResponseSuccess(w, "Password created successfully!", nil)
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	setSessionCookie(w, resp.Token, resp.ExpiresAt)
	utils.ResponseSuccess(w, "login successful", resp)
}

// Logout handles GET /api/users/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	utils.ResponseSuccess(w, "logout successful!", nil)
}

// SendPhoneOTP handles POST /api/users/phone/otp
func (h *AuthHandler) SendPhoneOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	if err := h.service.SendPhoneOTP(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "send phone OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent successfully", nil)
}

// VerifyPhone handles POST /api/users/phone/verify
func (h *AuthHandler) VerifyPhone(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.VerifyPhoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.VerifyPhone(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "verify phone")
		return
	}

	utils.ResponseSuccess(w, "Phone number verified successfully", nil)
}
