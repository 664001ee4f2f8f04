package middleware

import (
	"readiness_backend/internal/config"
	"readiness_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies bearer tokens issued by the external identity
// provider. Only the claim endpoint sits behind it.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil || claims.AccountID == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("account", claims)
		c.Next()
	}
}
