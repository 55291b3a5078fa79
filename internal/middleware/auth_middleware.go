package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"tradelink-chat/internal/services"
	"tradelink-chat/internal/transport/httpdto"
	tradelink_errors "tradelink-chat/pkg/errors"
	"tradelink-chat/pkg/logger"
)

// AuthMiddleware verifies the bearer credential and attaches the
// resolved identity to the request context before any handler runs.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(c.Request.Context(), extractBearer(c))
		if err != nil {
			c.JSON(httpdto.FromError(tradelink_errors.ErrUnauthorized))
			c.Abort()
			return
		}

		ctx := services.WithUserContext(c.Request.Context(), user)
		ctx = context.WithValue(ctx, logger.UserIdKey, user.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
