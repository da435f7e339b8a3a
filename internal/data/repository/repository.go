package repository

import (
	"reuniteme/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Admin        AdminRepository
	Contribution ContributionRepository
	OTP          OTPRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Admin:        NewAdminRepository(db, log),
		Contribution: NewContributionRepository(db, log),
		OTP:          NewOTPRepository(db, log),
	}
}
