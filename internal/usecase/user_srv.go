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
	"reuniteme/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdatePhone(ctx context.Context, userID uuid.UUID, req *request.UpdatePhoneRequest) (string, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
		now:      time.Now,
	}
}

func (us *userService) Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	if user == nil || !user.IsActive {
		return nil, newError(KindNotFound, MsgUserNotFound, nil)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdatePhone moves the current phone into the history and resets phone verification.
func (us *userService) UpdatePhone(ctx context.Context, userID uuid.UUID, req *request.UpdatePhoneRequest) (string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return "", validationError(errs)
	}

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", internalError(err)
	}
	if user == nil || !user.IsActive {
		return "", newError(KindNotFound, MsgUserNotFound, nil)
	}

	if req.Phone == user.Phone {
		return fmt.Sprintf("Phone number %s already exists.", req.Phone), nil
	}

	user.PrevPhones = append(user.PrevPhones, user.Phone)
	user.Phone = req.Phone
	user.IsPhoneVerified = false
	user.UpdatedAt = us.now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return "", newError(KindDuplicateKey, "Phone number already in use", err)
		}
		return "", internalError(err)
	}

	us.log.Info("Phone updated", zap.String("user_id", user.ID.String()))
	return fmt.Sprintf("Phone number %s updated successfully", req.Phone), nil
}

// DeleteMe soft-deletes the caller's own account. It reports false if it was already deleted.
func (us *userService) DeleteMe(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, internalError(err)
	}
	if user == nil {
		return false, newError(KindNotFound, MsgUserNotFound, nil)
	}

	deleted, err := us.userRepo.SoftDelete(ctx, userID, &entity.DeletionRecord{
		ActorID:   userID,
		Role:      entity.RoleUser,
		DeletedAt: us.now(),
	})
	if err != nil {
		return false, internalError(err)
	}

	return deleted, nil
}
