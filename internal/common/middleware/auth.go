package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beerescue/service-storefront/internal/common/auth"
	"github.com/beerescue/service-storefront/internal/common/response"
)

const (
	userIDKey    = "user_id"
	sessionIDKey = "session_id"
)

// AuthMiddleware validates the bearer token and stores its claims on the context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.Unauthorized(c, "token expired")
				return
			}
			response.Unauthorized(c, "invalid or malformed token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// GetUserID returns the upstream user id of the authenticated caller.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetSessionID returns the session id carried by the caller's token.
func GetSessionID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(sessionIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
