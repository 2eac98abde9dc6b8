package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PGMA10/rrak-website/internal/session"
)

// AdminRequired rejects requests whose session is missing or not logged in
// and keeps active sessions from expiring.
func AdminRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Authenticated(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		sessions.Refresh(c)
		c.Next()
	}
}
