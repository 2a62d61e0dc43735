package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
)

// AuthMiddleware validates the bearer access token and stores the caller's
// identity ("user_id", "user_type") in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "NO_TOKEN", "error": "No authorization token provided."})
			return
		}

		var rawToken string
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
			rawToken = authHeader[7:]
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_AUTH_FORMAT", "error": "Invalid authorization format."})
			return
		}

		claims, err := shared_models.ParseAccessToken(rawToken)
		if err != nil {
			logger.WarnLogger.Warnf("Access token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "Invalid or expired token."})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_type", claims.UserType)
		c.Next()
	}
}

// RequireUserType allows only callers whose token carries one of the given
// roles. Must run after AuthMiddleware.
func RequireUserType(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("user_type")
		for _, t := range allowed {
			if userType == t {
				c.Next()
				return
			}
		}
		logger.WarnLogger.Warnf("Role %q refused access to %s", userType, c.FullPath())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "ACCESS_DENIED", "error": "You do not have permission to perform this action."})
	}
}
