package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// sessionKey is the key under which the resolved session is stored in the
// Gin context by SessionAuthMiddleware.
const sessionKey = contextKey("session")

// GetSessionFromContext retrieves the resolved session from the Gin context.
// It returns the session and a boolean indicating if it was found.
func GetSessionFromContext(c *gin.Context) (*domain.Session, bool) {
	val, exists := c.Get(string(sessionKey))
	if !exists {
		return nil, false
	}
	sess, ok := val.(*domain.Session)
	if !ok {
		return nil, false
	}
	return sess, true
}

// ActorFromContext builds the authorization actor from the session stored in
// the Gin context. The second return is false when no session is present.
func ActorFromContext(c *gin.Context) (authz.Actor, bool) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return authz.Actor{}, false
	}
	return authz.Actor{
		UserID:       sess.UserID,
		Capabilities: sess.Capabilities,
		Locations:    sess.Locations,
	}, true
}
