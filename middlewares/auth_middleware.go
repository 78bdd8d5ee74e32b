package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sandwichshop/ordering-api/utils"
)

// StaffAuth requires a valid staff bearer token and stores its subject and
// role on the context. An empty secret disables the check.
func StaffAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		utils.InfoLogger.WithFields(logrus.Fields{
			"subject": claims.Subject,
			"role":    claims.Role,
		}).Debug("Staff token accepted")

		c.Set("staff_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
