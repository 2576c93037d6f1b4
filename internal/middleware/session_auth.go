package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
)

// SessionAuthMiddleware creates a Gin middleware handler that resolves the
// opaque session cookie. Resolution also refreshes the session's
// last-activity timestamp.
func SessionAuthMiddleware(auth portssvc.AuthSvcFacade, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			logger.Warn("Session cookie missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		sess, err := auth.ResolveSession(c.Request.Context(), sid)
		if err != nil {
			logger.Warn("Session resolution failed", slog.String("error", err.Error()))
			c.SetCookie(cookieName, "", -1, "/", "", false, true)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
			return
		}

		c.Set(string(sessionKey), sess)
		// Every log line downstream carries the acting user.
		enriched := logger.With(
			slog.String("userID", sess.UserID),
			slog.String("username", sess.Username),
		)
		c.Set(string(loggerKey), enriched)
		c.Request = c.Request.WithContext(contextWithLogger(c.Request.Context(), enriched))

		c.Next()
	}
}
