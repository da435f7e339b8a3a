package usecase

import (
	"context"

	"reuniteme/internal/data/repository"
	"reuniteme/pkg/storage"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"go.uber.org/zap"
)

// Notifier delivers verification mail and phone OTP codes.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, clearToken string) error
	SendPhoneOTP(ctx context.Context, phone string) (string, error)
}

// Clients groups the long-lived external clients built once at startup.
type Clients struct {
	Storage     storage.ObjectStorage
	Notifier    Notifier
	UserTokens  *token.Issuer
	AdminTokens *token.Issuer
}

type Service struct {
	Auth         AuthService
	User         UserService
	Contribution ContributionService
	Admin        AdminService
}

func NewService(repo *repository.Repository, clients *Clients, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, clients.Notifier, clients.UserTokens, config, log),
		User:         NewUserService(repo.User, log),
		Contribution: NewContributionService(repo, clients.Storage, config, log),
		Admin:        NewAdminService(repo, clients.AdminTokens, log),
	}
}
