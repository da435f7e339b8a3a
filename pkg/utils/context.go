package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// Only principal ids travel through the request context, never full records.
const (
	UserIDKey  contextKey = "user_id"
	AdminIDKey contextKey = "admin_id"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return idFromContext(ctx, UserIDKey)
}

func SetUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID.String())
}

func GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return idFromContext(ctx, AdminIDKey)
}

func SetAdminContext(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, AdminIDKey, adminID.String())
}

func idFromContext(ctx context.Context, key contextKey) (uuid.UUID, bool) {
	val := ctx.Value(key)
	if val == nil {
		return uuid.Nil, false
	}

	idStr, ok := val.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
