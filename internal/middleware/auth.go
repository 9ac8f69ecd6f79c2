package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"senstosales/internal/auth"
)

const (
	ContextKeyOwnerID = "owner_id"
	ContextKeyClaims  = "claims"
)

// Auth returns Gin middleware that validates bearer tokens and injects the
// owner id. A nil verifier means authentication is disabled.
func Auth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyOwnerID, claims.Subject)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetOwnerID returns the authenticated subject, or "" when auth is disabled.
func GetOwnerID(c *gin.Context) string {
	val, exists := c.Get(ContextKeyOwnerID)
	if !exists {
		return ""
	}
	return val.(string)
}
