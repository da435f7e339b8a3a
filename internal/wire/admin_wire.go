package wire

import (
	"reuniteme/internal/adaptor"
	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin mounts everything under /api/admins. Each user-management route
// requires the admin session plus one permission.
func wireAdmin(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	clients *usecase.Clients,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/login", handler.Admin.Login)

	// ==================== SESSION ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthAdmin(clients.AdminTokens, log))

		r.Get("/me", handler.Admin.Me)
		r.Get("/logout", handler.Admin.Logout)

		r.Route("/users", func(r chi.Router) {
			read := middleware.AdminPermission(repo.Admin, entity.PermissionRead, log)
			write := middleware.AdminPermission(repo.Admin, entity.PermissionWrite, log)
			remove := middleware.AdminPermission(repo.Admin, entity.PermissionDelete, log)

			r.With(read).Get("/", handler.Admin.ListUsers)
			r.With(read).Get("/all-contributions", handler.Contribution.AllContributions)
			r.With(read).Get("/plot-info", handler.Contribution.PlotInfo)
			r.With(read).Get("/{userId}", handler.Admin.GetUser)

			r.With(write).Put("/{userId}", handler.Admin.UpdateUser)
			r.With(write).Put("/update/{userId}", handler.Admin.UpdateUser)
			r.With(write).Get("/activate/{userId}", handler.Admin.ActivateUser)

			r.With(remove).Delete("/{userId}", handler.Admin.DeleteUser)
		})
	})
}
