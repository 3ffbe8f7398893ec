package middleware

import (
	"net/http"

	"lodgecred/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has the specified role.
// The role is read from the verified session claim only.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Role not found in token")
			return
		}

		if p.Role != requiredRole {
			response.AbortError(c, http.StatusForbidden, response.CodeForbidden, "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
