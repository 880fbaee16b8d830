package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

const userIDKey = "auth.user_id"

// RequireUser rejects requests without a valid bearer token and stores the
// user ID in the gin context.
func RequireUser(v *Verifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("invalid token", zap.String("path", c.FullPath()), zap.Error(err))
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.EffectiveUserID())
		c.Next()
	}
}

// UserID returns the authenticated user ID set by RequireUser
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
