package adaptor

import (
	"encoding/json"
	"net/http"

	"reuniteme/internal/usecase"
	"reuniteme/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Contribution *ContributionHandler
	Admin        *AdminHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Contribution: NewContributionHandler(service.Contribution, config.App.MaxUploadMB, log),
		Admin:        NewAdminHandler(service.Admin, log),
	}
}

// decodeJSON writes the 400 itself when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}
