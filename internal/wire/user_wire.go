package wire

import (
	"reuniteme/internal/adaptor"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser mounts everything under /api/users
func wireUser(
	r chi.Router,
	handler *adaptor.Handler,
	clients *usecase.Clients,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/register", handler.Auth.Register)
	r.Post("/verify/resend", handler.Auth.ResendVerification)
	r.Get("/verify/{token}", handler.Auth.Verify)
	r.Post("/verify/{token}", handler.Auth.Verify)
	r.Post("/verified/create-password/{userId}", handler.Auth.CreatePassword)
	r.Post("/login", handler.Auth.Login)

	// ==================== SESSION ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthUser(clients.UserTokens, log))

		r.Get("/me", handler.User.Me)
		r.Put("/me", handler.User.UpdatePhone)
		r.Delete("/me", handler.User.DeleteMe)
		r.Get("/logout", handler.Auth.Logout)

		r.Post("/phone/otp", handler.Auth.SendPhoneOTP)
		r.Post("/phone/verify", handler.Auth.VerifyPhone)

		r.Post("/upload", handler.Contribution.Upload)
		r.Get("/images", handler.Contribution.List)
		r.Get("/images/{imageId}", handler.Contribution.GetURL)
		r.Put("/images/{imageId}", handler.Contribution.Update)
		r.Delete("/images/{imageId}", handler.Contribution.Delete)
		r.Get("/images/delete/{imageId}", handler.Contribution.Delete)
		r.Get("/maps/{imageId}", handler.Contribution.MapsURL)
	})
}
