package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository"
	"reuniteme/internal/data/repository/repotest"
	"reuniteme/pkg/geotag"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// jpegHeader is enough for content sniffing to report image/jpeg.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	ops        []string
	uploadErr  error
	deleteErr  error
	presignErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Bucket() string { return "test-bucket" }

func (f *fakeStorage) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "upload:"+key)
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "delete:"+key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://signed.example/" + key, nil
}

func (f *fakeStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

type fakeNotifier struct {
	mu       sync.Mutex
	emails   map[string]string
	otp      string
	otpPhone string
	mailErr  error
	smsErr   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{emails: make(map[string]string), otp: "123456"}
}

func (f *fakeNotifier) SendVerificationEmail(ctx context.Context, to, clearToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mailErr != nil {
		return f.mailErr
	}
	f.emails[to] = clearToken
	return nil
}

func (f *fakeNotifier) SendPhoneOTP(ctx context.Context, phone string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.smsErr != nil {
		return "", f.smsErr
	}
	f.otpPhone = phone
	return f.otp, nil
}

func (f *fakeNotifier) tokenFor(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emails[email]
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:          utils.AppConfig{ClientURL: "http://localhost:5173", MaxUploadMB: 10},
		JWT:          utils.JWTConfig{UserSecret: "user-secret", AdminSecret: "admin-secret", ExpiryHours: 24},
		OTP:          utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Verification: utils.VerificationConfig{ExpiryMinutes: 30},
		Storage:      utils.StorageConfig{Bucket: "test-bucket", PresignMinutes: 60},
	}
}

type fixture struct {
	store    *repotest.Store
	repo     *repository.Repository
	storage  *fakeStorage
	notifier *fakeNotifier
	config   *utils.Config
	users    *token.Issuer
	admins   *token.Issuer
}

func newFixture() *fixture {
	store := repotest.NewStore()
	config := testConfig()
	return &fixture{
		store:    store,
		repo:     store.Repository(),
		storage:  newFakeStorage(),
		notifier: newFakeNotifier(),
		config:   config,
		users:    token.NewIssuer([]byte(config.JWT.UserSecret), config.JWT.Expiry(), "user"),
		admins:   token.NewIssuer([]byte(config.JWT.AdminSecret), config.JWT.Expiry(), "admin"),
	}
}

func (f *fixture) auth() *authService {
	return NewAuthService(f.repo, f.notifier, f.users, f.config, zap.NewNop()).(*authService)
}

func (f *fixture) contributions(loc geotag.Location, locErr error) *contributionService {
	svc := NewContributionService(f.repo, f.storage, f.config, zap.NewNop()).(*contributionService)
	svc.locate = func([]byte) (geotag.Location, error) { return loc, locErr }
	return svc
}

func (f *fixture) admin() *adminService {
	return NewAdminService(f.repo, f.admins, zap.NewNop()).(*adminService)
}

// activeUser seeds a verified, active user with password "password123".
func (f *fixture) activeUser(email, phone string) *entity.User {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		panic(err)
	}
	now := time.Now()
	u := &entity.User{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           email,
		Phone:           phone,
		PasswordHash:    &hash,
		IsEmailVerified: true,
		IsActive:        true,
	}
	if err := f.repo.User.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

var errBoom = errors.New("boom")

// failingContributions fails Create and Update while delegating reads.
type failingContributions struct {
	repository.ContributionRepository
}

func (failingContributions) Create(ctx context.Context, c *entity.Contribution) error { return errBoom }

func (failingContributions) Update(ctx context.Context, c *entity.Contribution) error { return errBoom }
