package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// RequireCapability creates a Gin middleware handler that refuses the
// request unless the session's cached capability set holds the given
// capability. Finer-grained decisions (branch scoping, ownership) stay in
// the services; this guard covers routes gated on a single capability.
func RequireCapability(cap domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSessionFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !sess.Capabilities.Has(cap) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Capability check failed",
				"capability", string(cap))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequireAnyCapability refuses the request unless the session holds at least
// one of the given capabilities. Used for routes open to any manager-grade
// role rather than one specific grant.
func RequireAnyCapability(caps ...domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSessionFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, cap := range caps {
			if sess.Capabilities.Has(cap) {
				c.Next()
				return
			}
		}
		GetLoggerFromCtx(c.Request.Context()).Warn("Capability check failed",
			"capabilities", domain.NewCapabilitySet(caps...).Keys())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
