package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository/repotest"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// echoPrincipal writes back whichever principal id the chain stored.
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		w.Write([]byte("user:" + id.String()))
		return
	}
	if id, ok := utils.GetAdminIDFromContext(r.Context()); ok {
		w.Write([]byte("admin:" + id.String()))
		return
	}
	w.Write([]byte("anonymous"))
})

func issuers() (*token.Issuer, *token.Issuer) {
	return token.NewIssuer([]byte("user-secret"), time.Hour, "user"),
		token.NewIssuer([]byte("admin-secret"), time.Hour, "admin")
}

func TestAuthUser(t *testing.T) {
	users, admins := issuers()
	h := AuthUser(users, zap.NewNop())(echoPrincipal)
	id := uuid.New()

	userToken, _, err := users.Issue(token.Principal{ID: id.String()})
	require.NoError(t, err)
	adminToken, _, err := admins.Issue(token.Principal{ID: id.String()})
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: userToken})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user:"+id.String(), rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+userToken)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decode(t, rec).Message)
	})

	t.Run("admin token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: adminToken})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decode(t, rec).Message)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", decode(t, rec).Message)
	})
}

func TestAuthAdmin(t *testing.T) {
	users, admins := issuers()
	h := AuthAdmin(admins, zap.NewNop())(echoPrincipal)
	id := uuid.New()

	adminToken, _, _ := admins.Issue(token.Principal{ID: id.String()})
	userToken, _, _ := users.Issue(token.Principal{ID: id.String()})

	req := httptest.NewRequest(http.MethodGet, "/api/admins/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: adminToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin:"+id.String(), rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/admins/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: userToken})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func seedAdmin(t *testing.T, store *repotest.Store, status entity.AdminStatus, perms ...entity.Permission) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, store.Repository().Admin.Create(context.Background(), &entity.Admin{
		BaseNoDelete: entity.BaseNoDelete{ID: id},
		Username:     id.String(),
		Email:        id.String() + "@example.com",
		Role:         entity.RoleAdmin,
		Permissions:  perms,
		Status:       status,
	}))
	return id
}

func TestAdminPermission(t *testing.T) {
	store := repotest.NewStore()
	repo := store.Repository()
	h := AdminPermission(repo.Admin, entity.PermissionDelete, zap.NewNop())(echoPrincipal)

	serve := func(adminID uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/admins/users/x", nil)
		req = req.WithContext(utils.SetAdminContext(req.Context(), adminID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	allowed := seedAdmin(t, store, entity.AdminStatusActive, entity.PermissionRead, entity.PermissionDelete)
	rec := serve(allowed)
	assert.Equal(t, http.StatusOK, rec.Code)

	readOnly := seedAdmin(t, store, entity.AdminStatusActive, entity.PermissionRead)
	rec = serve(readOnly)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decode(t, rec).Message)

	suspended := seedAdmin(t, store, entity.AdminStatusSuspended, entity.PermissionDelete)
	rec = serve(suspended)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Admin not found", decode(t, rec).Message)

	store.Err = assert.AnError
	rec = serve(allowed)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Status)
	assert.Equal(t, "Internal server error", body.Message)
}

func TestLogger_RecordsPrincipal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	users, _ := issuers()
	id := uuid.New()
	signed, _, _ := users.Issue(token.Principal{ID: id.String()})

	h := Logger(zap.New(core))(AuthUser(users, zap.NewNop())(echoPrincipal))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signed})
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, id.String(), fields["user_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	warned := logs.FilterLevelExact(zap.WarnLevel).All()
	require.Len(t, warned, 1)
	assert.NotContains(t, warned[0].ContextMap(), "user_id")
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(echoPrincipal)

	req := httptest.NewRequest(http.MethodOptions, "/api/users/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
