package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogsync/internal/auth"
)

// RequireSession gates the operator API behind a valid session cookie or
// Authorization header, the same token Check reads.
func RequireSession(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("catalogsync_session")
		if err != nil || token == "" {
			token = c.GetHeader("Authorization")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, err := a.Check(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
