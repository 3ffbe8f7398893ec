package middleware

import (
	"net/http"
	"strings"

	"lodgecred/internal/pkg/jwt"
	"lodgecred/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie the auth handlers set after sign-in.
const SessionCookie = "session"

const principalKey = "principal"

// Principal is the identity resolved for the current request.
type Principal struct {
	UserID int64
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// JWTAuth resolves the caller from a Bearer token, falling back to the
// session cookie. Missing or invalid credentials abort with 401.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, code, msg := extractToken(c)
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, code, msg)
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		SetPrincipal(c, Principal{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// SetPrincipal stores p on the gin context. user_id and role are kept as
// plain keys for the request logger.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.UserID)
	c.Set("role", p.Role)
}

// CurrentPrincipal returns the principal set by JWTAuth.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok && p.UserID != 0
}

// MustPrincipal writes a 401 and returns false when no principal is set.
func MustPrincipal(c *gin.Context) (Principal, bool) {
	p, ok := CurrentPrincipal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
		return Principal{}, false
	}
	return p, true
}

func extractToken(c *gin.Context) (token, code, message string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
		}
		t := strings.TrimSpace(parts[1])
		if t == "" {
			return "", "INVALID_AUTH_FORMAT", "Empty token"
		}
		return t, "", ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), "", ""
	}
	return "", "AUTH_HEADER_MISSING", "Authorization header is required"
}
