package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"reuniteme/internal/dto/request"
	"reuniteme/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerReq(email string) *request.RegisterRequest {
	return &request.RegisterRequest{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     email,
		Phone:     "+15551234567",
	}
}

func TestRegister_StoresOnlyTokenHash(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))

	clear := f.notifier.tokenFor("ann@example.com")
	require.Len(t, clear, 64)

	user, err := f.repo.User.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsEmailVerified)
	assert.False(t, user.IsActive)
	require.NotNil(t, user.EmailVerificationToken)
	assert.Equal(t, token.HashToken(clear), *user.EmailVerificationToken)
	assert.NotEqual(t, clear, *user.EmailVerificationToken)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *user.EmailVerificationTokenExpires, time.Minute)
}

func TestRegister_ExistingEmail(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))
	pending, _ := f.repo.User.FindByEmail(ctx, "ann@example.com")

	err := svc.Register(ctx, registerReq("ann@example.com"))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, MsgNotVerified, err.(*ServiceError).Message)

	// the pending record is untouched
	after, _ := f.repo.User.FindByEmail(ctx, "ann@example.com")
	assert.Equal(t, *pending.EmailVerificationToken, *after.EmailVerificationToken)

	f.activeUser("bob@example.com", "+15557654321")
	err = svc.Register(ctx, registerReq("bob@example.com"))
	require.Error(t, err)
	assert.Equal(t, MsgUserExists, err.(*ServiceError).Message)
}

func TestRegister_ValidationAndMailFailure(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	bad := registerReq("not-an-email")
	bad.Phone = "abc"
	err := svc.Register(ctx, bad)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.(*ServiceError).Errors, "Email")
	assert.Contains(t, err.(*ServiceError).Errors, "Phone")

	f.notifier.mailErr = errBoom
	err = svc.Register(ctx, registerReq("ann@example.com"))
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))

	// the user stays persisted so resend can recover
	user, _ := f.repo.User.FindByEmail(ctx, "ann@example.com")
	assert.NotNil(t, user)
}

func TestVerify_WindowAndSingleUse(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))
	clear := f.notifier.tokenFor("ann@example.com")

	_, err := svc.Verify(ctx, "deadbeef")
	require.Error(t, err)
	assert.Equal(t, MsgExpiredOrInvalid, err.(*ServiceError).Message)

	resp, err := svc.Verify(ctx, clear)
	require.NoError(t, err)

	user, _ := f.repo.User.FindByEmail(ctx, "ann@example.com")
	assert.Equal(t, "create-password/"+user.ID.String(), resp.RedirectTo)
	assert.True(t, user.IsEmailVerified)
	assert.True(t, user.IsActive)
	assert.Nil(t, user.EmailVerificationToken)

	_, err = svc.Verify(ctx, clear)
	require.Error(t, err)
	assert.Equal(t, MsgExpiredOrInvalid, err.(*ServiceError).Message)
}

func TestVerify_Expired(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))
	clear := f.notifier.tokenFor("ann@example.com")

	svc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	_, err := svc.Verify(ctx, clear)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, MsgExpiredOrInvalid, err.(*ServiceError).Message)
}

func TestResendVerification(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))
	first := f.notifier.tokenFor("ann@example.com")

	require.NoError(t, svc.ResendVerification(ctx, &request.ResendVerificationRequest{Email: "ann@example.com"}))
	second := f.notifier.tokenFor("ann@example.com")
	assert.NotEqual(t, first, second)

	_, err := svc.Verify(ctx, first)
	require.Error(t, err)
	_, err = svc.Verify(ctx, second)
	require.NoError(t, err)

	err = svc.ResendVerification(ctx, &request.ResendVerificationRequest{Email: "ann@example.com"})
	assert.Equal(t, MsgEmailAlreadyVerified, err.(*ServiceError).Message)

	err = svc.ResendVerification(ctx, &request.ResendVerificationRequest{Email: "nobody@example.com"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreatePasswordAndLogin(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))
	user, _ := f.repo.User.FindByEmail(ctx, "ann@example.com")

	err := svc.CreatePassword(ctx, user.ID.String(), &request.CreatePasswordRequest{Password: "supersecret"})
	require.Error(t, err)
	assert.Equal(t, "Your email is not verified yet!", err.(*ServiceError).Message)

	_, err = svc.Verify(ctx, f.notifier.tokenFor("ann@example.com"))
	require.NoError(t, err)

	err = svc.CreatePassword(ctx, user.ID.String(), &request.CreatePasswordRequest{Password: "short"})
	assert.Equal(t, KindValidation, KindOf(err))

	require.NoError(t, svc.CreatePassword(ctx, user.ID.String(), &request.CreatePasswordRequest{Password: "supersecret"}))

	err = svc.CreatePassword(ctx, user.ID.String(), &request.CreatePasswordRequest{Password: "anothersecret"})
	assert.Equal(t, "Password already created", err.(*ServiceError).Message)

	err = svc.CreatePassword(ctx, "not-a-uuid", &request.CreatePasswordRequest{Password: "supersecret"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "ann@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidCredentials, err.(*ServiceError).Message)

	resp, err := svc.Login(ctx, &request.LoginRequest{Email: "ann@example.com", Password: "supersecret"})
	require.NoError(t, err)
	claims, err := f.users.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)

	_, err = f.admins.Verify(resp.Token)
	assert.ErrorIs(t, err, token.ErrInvalidSignature)
}

func TestCreatePassword_MultibyteOverBcryptLimit(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("ann@example.com")))
	_, err := svc.Verify(ctx, f.notifier.tokenFor("ann@example.com"))
	require.NoError(t, err)
	user, _ := f.repo.User.FindByEmail(ctx, "ann@example.com")

	// 40 characters, 80 bytes
	err = svc.CreatePassword(ctx, user.ID.String(), &request.CreatePasswordRequest{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.(*ServiceError).Errors, "Password")

	after, _ := f.repo.User.FindByID(ctx, user.ID)
	assert.False(t, after.HasPassword())

	require.NoError(t, svc.CreatePassword(ctx, user.ID.String(), &request.CreatePasswordRequest{Password: strings.Repeat("é", 36)}))
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	u := f.activeUser("ann@example.com", "+15551234567")
	_, err := NewUserService(f.repo.User, svc.log).DeleteMe(ctx, u.ID)
	require.NoError(t, err)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "ann@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidCredentials, err.(*ServiceError).Message)
}

func TestPhoneOTP(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	u := f.activeUser("ann@example.com", "+15551234567")

	require.NoError(t, svc.SendPhoneOTP(ctx, u.ID))
	assert.Equal(t, "+15551234567", f.notifier.otpPhone)

	err := svc.VerifyPhone(ctx, u.ID, &request.VerifyPhoneRequest{OTP: "654321"})
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", err.(*ServiceError).Message)

	require.NoError(t, svc.VerifyPhone(ctx, u.ID, &request.VerifyPhoneRequest{OTP: "123456"}))
	user, _ := f.repo.User.FindByID(ctx, u.ID)
	assert.True(t, user.IsPhoneVerified)

	// codes are single use
	err = svc.VerifyPhone(ctx, u.ID, &request.VerifyPhoneRequest{OTP: "123456"})
	require.Error(t, err)

	err = svc.SendPhoneOTP(ctx, u.ID)
	assert.Equal(t, "Phone number already verified", err.(*ServiceError).Message)
}

func TestPhoneOTP_SMSFailure(t *testing.T) {
	f := newFixture()
	svc := f.auth()

	u := f.activeUser("ann@example.com", "+15551234567")
	f.notifier.smsErr = errBoom

	err := svc.SendPhoneOTP(context.Background(), u.ID)
	assert.Equal(t, KindUpstream, KindOf(err))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindInternal, KindOf(errBoom))
	assert.Equal(t, KindForbidden, KindOf(newError(KindForbidden, "Forbidden", nil)))
	assert.Equal(t, "duplicate_key", KindDuplicateKey.String())

	wrapped := newError(KindUpstream, MsgProcessingError, errBoom)
	assert.ErrorIs(t, wrapped, errBoom)
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestPhoneOTP_VoidedByPhoneChangeAndResend(t *testing.T) {
	f := newFixture()
	svc := f.auth()
	ctx := context.Background()

	u := f.activeUser("ann@example.com", "+15551234567")
	require.NoError(t, svc.SendPhoneOTP(ctx, u.ID))

	_, err := NewUserService(f.repo.User, svc.log).UpdatePhone(ctx, u.ID, &request.UpdatePhoneRequest{Phone: "+15559990000"})
	require.NoError(t, err)

	err = svc.VerifyPhone(ctx, u.ID, &request.VerifyPhoneRequest{OTP: "123456"})
	assert.Equal(t, "Invalid or expired OTP", err.(*ServiceError).Message)

	// a fresh code for the new number supersedes the old one
	f.notifier.otp = "111111"
	require.NoError(t, svc.SendPhoneOTP(ctx, u.ID))
	f.notifier.otp = "222222"
	require.NoError(t, svc.SendPhoneOTP(ctx, u.ID))

	err = svc.VerifyPhone(ctx, u.ID, &request.VerifyPhoneRequest{OTP: "111111"})
	require.Error(t, err)
	require.NoError(t, svc.VerifyPhone(ctx, u.ID, &request.VerifyPhoneRequest{OTP: "222222"}))
}
