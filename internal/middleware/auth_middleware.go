// auth_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"order-tracking-service/internal/model"
	"order-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// Middleware que valida el token y guarda el usuario en el contexto
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		user, err := resolver.ResolveToken(c.Request.Context(), token)

		switch {
		case err == nil:
		case errors.Is(err, service.ErrTokenExpired):
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		case errors.Is(err, service.ErrInvalidToken):
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			c.Abort()
			return
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			c.Abort()
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve token"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser devuelve el usuario que dejó AuthMiddleware en el contexto.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
