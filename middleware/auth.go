// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slotwise/utils"
)

// JWTAuthMiddleware validates the bearer credential on every calendar request
// and places the authenticated account id in the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		accountID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", err.Error())
			c.Abort()
			return
		}

		c.Set("accountID", accountID)
		c.Next()
	}
}
