package middleware

import (
	"errors"
	"net/http"
	"strings"

	"reuniteme/internal/data/entity"
	"reuniteme/internal/data/repository"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenCookie carries the session token for both principal types.
const TokenCookie = "token"

// tokenFromRequest reads the session cookie first and falls back to a Bearer header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// verify checks the token against issuer and writes the 401 itself on failure.
func verify(w http.ResponseWriter, r *http.Request, issuer *token.Issuer, log *zap.Logger) (uuid.UUID, bool) {
	raw := tokenFromRequest(r)
	if raw == "" {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return uuid.Nil, false
	}

	claims, err := issuer.Verify(raw)
	if err != nil {
		log.Warn("Rejected session token",
			zap.String("audience", issuer.Audience()),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		if errors.Is(err, token.ErrInvalidSignature) {
			utils.ResponseUnauthorized(w, "Unauthorized")
		} else {
			utils.ResponseUnauthorized(w, "Invalid token")
		}
		return uuid.Nil, false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		utils.ResponseUnauthorized(w, "Invalid token")
		return uuid.Nil, false
	}
	return id, true
}

// AuthUser admits requests carrying a valid user session.
func AuthUser(issuer *token.Issuer, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := verify(w, r, issuer, log)
			if !ok {
				return
			}

			recordPrincipal(r.Context(), "user_id", userID)
			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthAdmin admits requests carrying a valid admin session.
func AuthAdmin(issuer *token.Issuer, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := verify(w, r, issuer, log)
			if !ok {
				return
			}

			recordPrincipal(r.Context(), "admin_id", adminID)
			ctx := utils.SetAdminContext(r.Context(), adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminPermission loads the admin set by AuthAdmin and requires an active
// account with the admin role and perm.
func AdminPermission(adminRepo repository.AdminRepository, perm entity.Permission, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := utils.GetAdminIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Unauthorized")
				return
			}

			admin, err := adminRepo.FindByID(r.Context(), adminID)
			if err != nil {
				log.Error("Permission check: failed to get admin",
					zap.Error(err), zap.String("admin_id", adminID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if admin == nil {
				utils.ResponseBadRequest(w, "Admin not found", nil)
				return
			}

			if admin.Role != entity.RoleAdmin || admin.Status != entity.AdminStatusActive || !admin.HasPermission(perm) {
				log.Warn("Permission check: access denied",
					zap.String("admin_id", adminID.String()),
					zap.String("permission", string(perm)),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
