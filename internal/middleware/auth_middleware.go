package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "monotaskr/coordinator/internal/errors"
	"monotaskr/coordinator/internal/service"
)

const DeviceIDContextKey = "deviceID"

// Auth requires a valid bearer token issued by device pairing.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.Unauthorized("missing authorization header"))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, apperrors.Unauthorized("invalid authorization format"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			abortWithError(c, apperrors.Unauthorized("invalid authorization format"))
			return
		}

		deviceID, apiErr := authService.ParseToken(token)
		if apiErr != nil {
			abortWithError(c, apiErr)
			return
		}

		c.Set(DeviceIDContextKey, deviceID)
		c.Next()
	}
}

// DeviceID returns the authenticated device id, or "" when unset.
func DeviceID(c *gin.Context) string {
	value, ok := c.Get(DeviceIDContextKey)
	if !ok {
		return ""
	}
	deviceID, ok := value.(string)
	if !ok {
		return ""
	}
	return deviceID
}

func abortWithError(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}
