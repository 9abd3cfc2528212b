package router

import (
	"net/http"

	"github.com/findash/backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

// Authenticate reads the user identity the fronting auth proxy sets on
// every request. Requests without one are rejected; the proxy guarantees
// the header cannot be spoofed from outside.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.Request.Header.Get("X-User-ID")
		if user == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(controllers.ContextOwner, user)
		c.Next()
	}
}
