package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/servenear/marketplace/logger"
)

// GetUserIDFromContext extracts the authenticated user ID from the Gin
// context. The auth middleware stores it as a string under "user_id".
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		logger.ErrorLogger.Error("User ID not found in context.")
		return uuid.Nil, ErrUserIDNotFound
	}

	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		userID, err := uuid.Parse(v)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to parse user ID string '%s' to UUID: %v", v, err)
			return uuid.Nil, fmt.Errorf("internal server error: invalid user ID format")
		}
		return userID, nil
	default:
		logger.ErrorLogger.Errorf("User ID in context has unexpected type %T", raw)
		return uuid.Nil, fmt.Errorf("internal server error: invalid user ID format in context")
	}
}
