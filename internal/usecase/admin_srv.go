package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository"
	"reuniteme/internal/dto/request"
	"reuniteme/internal/dto/response"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	Login(ctx context.Context, req *request.AdminLoginRequest) (*response.LoginResponse, error)
	Me(ctx context.Context, adminID uuid.UUID) (*response.AdminResponse, error)
	ListUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *request.AdminUpdateUserRequest) error
	DeleteUser(ctx context.Context, adminID uuid.UUID, userID string) (bool, error)
	ActivateUser(ctx context.Context, userID string) (bool, error)
	EnsureBootstrapAdmin(ctx context.Context, cfg utils.AdminBootstrapConfig) error
}

type adminService struct {
	repo   *repository.Repository // admins and users
	issuer *token.Issuer
	log    *zap.Logger
	now    func() time.Time
}

func NewAdminService(repo *repository.Repository, issuer *token.Issuer, log *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		issuer: issuer,
		log:    log.With(zap.String("service", "admin")),
		now:    time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, req *request.AdminLoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	admin, err := s.repo.Admin.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		return nil, internalError(err)
	}
	if admin == nil || !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
		s.log.Warn("Admin login rejected", zap.String("email", req.Email))
		return nil, newError(KindValidation, MsgInvalidCredentials, nil)
	}

	signed, expiresAt, err := s.issuer.Issue(token.Principal{
		ID:       admin.ID.String(),
		Username: admin.Email,
		Name:     admin.FirstName,
	})
	if err != nil {
		return nil, internalError(err)
	}

	if err := s.repo.Admin.UpdateLastLogin(ctx, admin.ID, s.now()); err != nil {
		s.log.Warn("Failed to record admin login", zap.Error(err), zap.String("admin_id", admin.ID.String()))
	}

	s.log.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))
	return &response.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *adminService) Me(ctx context.Context, adminID uuid.UUID) (*response.AdminResponse, error) {
	admin, err := s.repo.Admin.FindByID(ctx, adminID)
	if err != nil {
		return nil, internalError(err)
	}
	if admin == nil || admin.Status != entity.AdminStatusActive {
		return nil, newError(KindNotFound, MsgAdminNotFound, nil)
	}

	resp := response.AdminToResponse(admin)
	return &resp, nil
}

func (s *adminService) ListUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := s.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, internalError(err)
	}

	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, response.UserToResponse(u))
	}

	return response.NewPaginatedResponse(out, req.Page, req.Limit(), total), nil
}

func (s *adminService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, newError(KindValidation, "Invalid user id", err)
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, internalError(err)
	}
	if user == nil {
		return nil, newError(KindNotFound, MsgUserNotFound, nil)
	}
	return user, nil
}

// GetUser includes the deletion history, which the user's own view leaves out.
func (s *adminService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	deletions, err := s.repo.User.FindDeletions(ctx, user.ID)
	if err != nil {
		return nil, internalError(err)
	}

	resp := response.UserToResponse(user)
	resp.WhoDeleted = response.DeletionsToResponse(deletions)
	return &resp, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID string, req *request.AdminUpdateUserRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return internalError(err)
	}

	s.log.Info("User updated by admin", zap.String("user_id", user.ID.String()))
	return nil
}

// findVerifiedUser is findUser restricted to accounts that completed email verification.
func (s *adminService) findVerifiedUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEmailVerified {
		return nil, newError(KindValidation, MsgPendingVerification, nil)
	}
	return user, nil
}

// DeleteUser soft-deletes a user on behalf of adminID. It reports false if already deleted.
func (s *adminService) DeleteUser(ctx context.Context, adminID uuid.UUID, userID string) (bool, error) {
	user, err := s.findVerifiedUser(ctx, userID)
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.User.SoftDelete(ctx, user.ID, &entity.DeletionRecord{
		ActorID:   adminID,
		Role:      entity.RoleAdmin,
		DeletedAt: s.now(),
	})
	if err != nil {
		return false, internalError(err)
	}

	return deleted, nil
}

// ActivateUser restores a soft-deleted user. It reports false if the user was already active.
func (s *adminService) ActivateUser(ctx context.Context, userID string) (bool, error) {
	user, err := s.findVerifiedUser(ctx, userID)
	if err != nil {
		return false, err
	}

	activated, err := s.repo.User.Activate(ctx, user.ID)
	if err != nil {
		return false, internalError(err)
	}

	if activated {
		s.log.Info("User activated", zap.String("user_id", user.ID.String()))
	}
	return activated, nil
}

// EnsureBootstrapAdmin creates the configured admin once. It is a no-op when the username exists.
func (s *adminService) EnsureBootstrapAdmin(ctx context.Context, cfg utils.AdminBootstrapConfig) error {
	req := &request.BootstrapAdminRequest{
		Username:    cfg.Username,
		FirstName:   cfg.FirstName,
		LastName:    cfg.LastName,
		Email:       cfg.Email,
		Phone:       cfg.Phone,
		Password:    cfg.Password,
		Permissions: cfg.Permissions,
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("invalid bootstrap admin: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Admin.FindByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Info("Admin already exists", zap.String("username", cfg.Username))
		return nil
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	perms := make([]entity.Permission, 0, len(cfg.Permissions))
	for _, p := range cfg.Permissions {
		perms = append(perms, entity.Permission(p))
	}

	now := s.now()
	admin := &entity.Admin{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     cfg.Username,
		FirstName:    cfg.FirstName,
		LastName:     cfg.LastName,
		Email:        cfg.Email,
		Phone:        cfg.Phone,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Permissions:  perms,
		Status:       entity.AdminStatusActive,
	}

	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			s.log.Info("Admin created concurrently", zap.String("username", cfg.Username))
			return nil
		}
		return err
	}

	s.log.Info("Admin created successfully", zap.String("username", cfg.Username))
	return nil
}
