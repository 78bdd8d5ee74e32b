package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/sandwichshop/ordering-api/utils"
)

// WebSocketAuthMiddleware reads the staff token from the "token" query
// parameter, since browsers cannot set headers on websocket upgrades. An
// empty secret lets every client in as role "kitchen".
func WebSocketAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Set("role", "kitchen")
			c.Next()
			return
		}

		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("staff_id", claims.Subject)
		c.Next()
	}
}
