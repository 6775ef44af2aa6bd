package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beerescue/service-storefront/internal/common/auth"
	"github.com/beerescue/service-storefront/internal/common/middleware"
	"github.com/beerescue/service-storefront/internal/common/response"
	"github.com/beerescue/service-storefront/internal/domain/session"
)

const sessionKey = "session"

// SessionAuthenticator resolves a live session by id.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionID uuid.UUID) (*session.Session, error)
}

// RequireSession validates the bearer token and loads its session onto the context.
func RequireSession(jwtManager *auth.JWTManager, sessions SessionAuthenticator) gin.HandlersChain {
	return gin.HandlersChain{middleware.AuthMiddleware(jwtManager), loadSession(sessions)}
}

func loadSession(sessions SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := middleware.GetSessionID(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		sess, err := sessions.Authenticate(c.Request.Context(), sessionID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if userID, ok := middleware.GetUserID(c); !ok || userID != sess.UserID() {
			response.Unauthorized(c, "token does not match session")
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// currentSession returns the session loaded by RequireSession and writes 401 when absent.
func currentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if ok {
		if sess, ok := v.(*session.Session); ok {
			return sess, true
		}
	}
	response.Unauthorized(c, "unauthorized")
	return nil, false
}

// parseID reads a positive integer path parameter and writes 400 when it is not one.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
