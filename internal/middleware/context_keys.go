package middleware

import "github.com/gin-gonic/gin"

// contextKey is a private key type for context values set by middleware.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerKey = contextKey("logger")
	userIDKey = contextKey("userID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		if userIDVal := c.Request.Context().Value(userIDKey); userIDVal != nil {
			userID, ok := userIDVal.(string)
			return userID, ok
		}
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}
