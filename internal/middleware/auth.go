package middleware

import (
	"net/http"
	"strings"

	"runam-backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	contextUserID   = "userID"
	contextUserName = "userName"
)

// AuthenticateUser validates the Bearer token and stores the caller identity
// in the request context. Identity issuance (OTP login) is a separate
// service; this backend only verifies.
func AuthenticateUser(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Authorization header required",
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" || token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Bearer token required",
			})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUserName, claims.Name)
		c.Next()
	}
}

// GetUserID returns the authenticated caller's user ID from the context
func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// RequireAdmin gates operator-only endpoints behind a shared API key. With
// no key configured the endpoints are disabled outright.
func RequireAdmin(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || c.GetHeader("X-Admin-Key") != apiKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "FORBIDDEN",
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}
