package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const deniedMessage = "Access Denied: Only Gateway can access this service"

// NewGatewayFilter gates every request on the pre-shared gateway secret.
// It authenticates the calling service, not the end user, and runs before
// any route logic.
func NewGatewayFilter(headerName, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(headerName)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": deniedMessage})
			return
		}
		c.Next()
	}
}
