package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khedma/internal/pkg/response"
)

// RequireRole ensures that the authenticated actor has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClientOnly restricts a route to client actors
func ClientOnly() gin.HandlerFunc {
	return RequireRole("client")
}

// ProviderOnly restricts a route to provider actors
func ProviderOnly() gin.HandlerFunc {
	return RequireRole("provider")
}
