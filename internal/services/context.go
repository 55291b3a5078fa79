package services

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// AuthUser is the identity attached to a request context by the token
// layer before any chat handler runs.
type AuthUser struct {
	ID       uuid.UUID
	Username string
}

func WithUserContext(ctx context.Context, u AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(userContextKey).(AuthUser)
	return u, ok
}
