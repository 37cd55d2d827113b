package middleware

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	usernameKey = contextKey("username")
	roleKey     = contextKey("role")
)

// GetUsernameFromContext retrieves the authenticated username from the request context.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	username, ok := c.Request.Context().Value(usernameKey).(string)
	return username, ok && username != ""
}

// GetRoleFromContext retrieves the authenticated role from the request context.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	role, ok := c.Request.Context().Value(roleKey).(domain.Role)
	return role, ok
}

func withIdentity(ctx context.Context, username string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, usernameKey, username)
	return context.WithValue(ctx, roleKey, role)
}
