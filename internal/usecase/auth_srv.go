package usecase

import (
	"context"
	"errors"
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

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) error
	ResendVerification(ctx context.Context, req *request.ResendVerificationRequest) error
	Verify(ctx context.Context, clearToken string) (*response.VerifyResponse, error)
	CreatePassword(ctx context.Context, userID string, req *request.CreatePasswordRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	SendPhoneOTP(ctx context.Context, userID uuid.UUID) error
	VerifyPhone(ctx context.Context, userID uuid.UUID, req *request.VerifyPhoneRequest) error
}

type authService struct {
	repo     *repository.Repository // users and otps
	notifier Notifier
	issuer   *token.Issuer
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	notifier Notifier,
	issuer *token.Issuer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		notifier: notifier,
		issuer:   issuer,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
		now:      time.Now,
	}
}

// Register creates an unverified user and mails a verification link.
// An existing record for the email is never overwritten.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return validationError(errs)
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return internalError(err)
	}
	if existing != nil {
		if existing.IsEmailVerified {
			return newError(KindValidation, MsgUserExists, nil)
		}
		return newError(KindValidation, MsgNotVerified, nil)
	}

	now := s.now()
	vt, err := token.NewVerificationToken(now, s.config.Verification.Window())
	if err != nil {
		return internalError(err)
	}

	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:                     req.FirstName,
		LastName:                      req.LastName,
		Email:                         req.Email,
		Phone:                         req.Phone,
		PrevPhones:                    []string{},
		EmailVerificationToken:        &vt.Hash,
		EmailVerificationTokenExpires: &vt.ExpiresAt,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return newError(KindDuplicateKey, MsgUserExists, err)
		}
		return internalError(err)
	}

	if err := s.notifier.SendVerificationEmail(ctx, user.Email, vt.Clear); err != nil {
		return newError(KindUpstream, MsgProcessingError, err)
	}

	s.log.Info("User registered", zap.String("user_id", user.ID.String()))
	return nil
}

// ResendVerification replaces the pending token of an unverified user and mails it again.
func (s *authService) ResendVerification(ctx context.Context, req *request.ResendVerificationRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return internalError(err)
	}
	if user == nil {
		return newError(KindNotFound, MsgUserNotFound, nil)
	}
	if user.IsEmailVerified {
		return newError(KindValidation, MsgEmailAlreadyVerified, nil)
	}

	now := s.now()
	vt, err := token.NewVerificationToken(now, s.config.Verification.Window())
	if err != nil {
		return internalError(err)
	}

	user.EmailVerificationToken = &vt.Hash
	user.EmailVerificationTokenExpires = &vt.ExpiresAt
	user.UpdatedAt = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		return internalError(err)
	}

	if err := s.notifier.SendVerificationEmail(ctx, user.Email, vt.Clear); err != nil {
		return newError(KindUpstream, MsgProcessingError, err)
	}

	s.log.Info("Verification email re-sent", zap.String("user_id", user.ID.String()))
	return nil
}

// Verify consumes a verification token. Unknown and expired tokens fail the same way.
func (s *authService) Verify(ctx context.Context, clearToken string) (*response.VerifyResponse, error) {
	if clearToken == "" {
		return nil, newError(KindValidation, MsgExpiredOrInvalid, nil)
	}

	now := s.now()
	user, err := s.repo.User.FindByVerificationToken(ctx, token.HashToken(clearToken), now)
	if err != nil {
		return nil, internalError(err)
	}
	if user == nil {
		return nil, newError(KindValidation, MsgExpiredOrInvalid, nil)
	}

	alreadyVerified := user.IsEmailVerified

	user.IsEmailVerified = true
	user.IsActive = true
	user.ClearVerificationToken()
	user.UpdatedAt = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, internalError(err)
	}

	if alreadyVerified {
		return &response.VerifyResponse{}, nil
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return &response.VerifyResponse{RedirectTo: "create-password/" + user.ID.String()}, nil
}

func (s *authService) CreatePassword(ctx context.Context, userID string, req *request.CreatePasswordRequest) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return newError(KindValidation, "Invalid user id", err)
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return internalError(err)
	}
	if user == nil {
		return newError(KindNotFound, MsgUserNotFound, nil)
	}
	if !user.IsEmailVerified {
		return newError(KindValidation, "Your email is not verified yet!", nil)
	}
	if user.HasPassword() {
		return newError(KindValidation, "Password already created", nil)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return internalError(err)
	}

	user.PasswordHash = &hash
	user.UpdatedAt = s.now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return internalError(err)
	}

	s.log.Info("Password created", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.repo.User.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		return nil, internalError(err)
	}
	if user == nil || !user.HasPassword() {
		s.log.Warn("Login for unknown or incomplete account", zap.String("email", req.Email))
		return nil, newError(KindValidation, MsgInvalidCredentials, nil)
	}

	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, newError(KindValidation, MsgInvalidCredentials, nil)
	}

	signed, expiresAt, err := s.issuer.Issue(token.Principal{
		ID:       user.ID.String(),
		Username: user.Email,
		Name:     user.FirstName,
	})
	if err != nil {
		return nil, internalError(err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &response.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// SendPhoneOTP texts a code to the user's current phone and stores only its hash.
func (s *authService) SendPhoneOTP(ctx context.Context, userID uuid.UUID) error {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsPhoneVerified {
		return newError(KindValidation, "Phone number already verified", nil)
	}

	code, err := s.notifier.SendPhoneOTP(ctx, user.Phone)
	if err != nil {
		return newError(KindUpstream, MsgProcessingError, err)
	}

	now := s.now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Phone:     user.Phone,
		CodeHash:  utils.SHA256Hex(code),
		OTPType:   entity.OTPTypePhoneVerification,
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}
	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return internalError(err)
	}

	return nil
}

func (s *authService) VerifyPhone(ctx context.Context, userID uuid.UUID, req *request.VerifyPhoneRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.repo.OTP.Consume(ctx, user.ID, user.Phone, utils.SHA256Hex(req.OTP), entity.OTPTypePhoneVerification, s.now())
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return newError(KindValidation, "Invalid or expired OTP", nil)
	}

	user.IsPhoneVerified = true
	user.UpdatedAt = s.now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return internalError(err)
	}

	s.log.Info("Phone verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) activeUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	if user == nil || !user.IsActive {
		return nil, newError(KindNotFound, MsgUserNotFound, nil)
	}
	return user, nil
}
