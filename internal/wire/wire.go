// internal/wire/wire.go
package wire

import (
	"net/http"

	"reuniteme/internal/adaptor"
	"reuniteme/internal/data/repository"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/middleware"
	"reuniteme/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled router and the services built for it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from already-connected dependencies.
func Wiring(repo *repository.Repository, clients *usecase.Clients, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, clients, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, clients, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	clients *usecase.Clients,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	r.Route("/api/users", func(r chi.Router) {
		wireUser(r, handler, clients, logger)
	})
	r.Route("/api/admins", func(r chi.Router) {
		wireAdmin(r, handler, repo, clients, logger)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
