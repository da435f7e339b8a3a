package usecase

import (
	"context"
	"testing"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/dto/request"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bootstrapConfig() utils.AdminBootstrapConfig {
	return utils.AdminBootstrapConfig{
		Username:    "rootadm",
		FirstName:   "Root",
		LastName:    "Admin",
		Email:       "admin@example.com",
		Phone:       "+15550000000",
		Password:    "admin-password",
		Permissions: []string{"read", "write", "delete"},
	}
}

func TestEnsureBootstrapAdmin_Idempotent(t *testing.T) {
	f := newFixture()
	svc := f.admin()
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, bootstrapConfig()))
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, bootstrapConfig()))

	admin, err := f.repo.Admin.FindByUsername(ctx, "rootadm")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, entity.AdminStatusActive, admin.Status)
	assert.True(t, admin.HasPermission(entity.PermissionDelete))
	assert.NotEqual(t, "admin-password", admin.PasswordHash)
}

func TestEnsureBootstrapAdmin_Invalid(t *testing.T) {
	f := newFixture()
	svc := f.admin()

	cfg := bootstrapConfig()
	cfg.Username = "toolongname"
	assert.Error(t, svc.EnsureBootstrapAdmin(context.Background(), cfg))

	cfg = bootstrapConfig()
	cfg.Permissions = []string{"read", "update"}
	assert.Error(t, svc.EnsureBootstrapAdmin(context.Background(), cfg))
}

func TestAdminLoginAndMe(t *testing.T) {
	f := newFixture()
	svc := f.admin()
	ctx := context.Background()
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, bootstrapConfig()))

	_, err := svc.Login(ctx, &request.AdminLoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Equal(t, MsgInvalidCredentials, err.(*ServiceError).Message)

	resp, err := svc.Login(ctx, &request.AdminLoginRequest{Email: "admin@example.com", Password: "admin-password"})
	require.NoError(t, err)

	claims, err := f.admins.Verify(resp.Token)
	require.NoError(t, err)
	_, err = f.users.Verify(resp.Token)
	assert.ErrorIs(t, err, token.ErrInvalidSignature)

	me, err := svc.Me(ctx, uuid.MustParse(claims.Subject))
	require.NoError(t, err)
	assert.Equal(t, "rootadm", me.Username)
	assert.NotNil(t, me.LastLogin)
	assert.Equal(t, []string{"read", "write", "delete"}, me.Permissions)

	_, err = svc.Me(ctx, uuid.New())
	assert.Equal(t, MsgAdminNotFound, err.(*ServiceError).Message)
}

func TestAdminUserModeration(t *testing.T) {
	f := newFixture()
	svc := f.admin()
	ctx := context.Background()
	adminID := uuid.New()

	u := f.activeUser("ann@example.com", "+15551234567")
	f.activeUser("bob@example.com", "+15557654321")

	page, err := svc.ListUsers(ctx, request.NewPaginatedRequest("1", "1"))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Page.TotalItems)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.True(t, page.Page.HasNext)

	require.NoError(t, svc.UpdateUser(ctx, u.ID.String(), &request.AdminUpdateUserRequest{FirstName: "Annie"}))

	deleted, err := svc.DeleteUser(ctx, adminID, u.ID.String())
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteUser(ctx, adminID, u.ID.String())
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := svc.GetUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.False(t, got.IsActive)
	require.Len(t, got.WhoDeleted, 1)
	assert.Equal(t, adminID.String(), got.WhoDeleted[0].ActorID)
	assert.Equal(t, "admin", got.WhoDeleted[0].Role)

	activated, err := svc.ActivateUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.True(t, activated)

	activated, err = svc.ActivateUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.False(t, activated)

	_, err = svc.GetUser(ctx, "bogus")
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = svc.GetUser(ctx, uuid.NewString())
	assert.Equal(t, MsgUserNotFound, err.(*ServiceError).Message)
}

func TestAdminModeration_UnverifiedUser(t *testing.T) {
	f := newFixture()
	svc := f.admin()
	ctx := context.Background()

	require.NoError(t, f.auth().Register(ctx, registerReq("ann@example.com")))
	pending, err := f.repo.User.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)

	_, err = svc.DeleteUser(ctx, uuid.New(), pending.ID.String())
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, MsgPendingVerification, err.(*ServiceError).Message)

	_, err = svc.ActivateUser(ctx, pending.ID.String())
	assert.Equal(t, MsgPendingVerification, err.(*ServiceError).Message)

	after, err := svc.GetUser(ctx, pending.ID.String())
	require.NoError(t, err)
	assert.False(t, after.IsActive)
	assert.Empty(t, after.WhoDeleted)
}
