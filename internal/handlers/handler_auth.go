package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/middleware"
	"github.com/kassatrack/cash_report_app/internal/platform/config"
)

// authHandler handles login, logout and session introspection.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	cfg         *config.Config
}

func newAuthHandler(as portssvc.AuthSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{authService: as, cfg: cfg}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService, cfg)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.RateLimit(newLoginLimiter()), h.login)
		auth.POST("/logout", h.logout)
		auth.GET("/session", middleware.SessionAuthMiddleware(authService, cfg.SessionCookieName), h.currentSession)
	}
}

func sessionUserResponse(sess *domain.Session) dto.SessionUserResponse {
	locations := sess.Locations
	if locations == nil {
		locations = []string{}
	}
	return dto.SessionUserResponse{
		ID:          sess.UserID,
		Username:    sess.Username,
		Role:        sess.Role,
		Locations:   locations,
		Permissions: sess.Capabilities.Keys(),
	}
}

// redirectFor picks the landing surface for a fresh session.
func redirectFor(sess *domain.Session) string {
	if sess.Capabilities.Has(domain.CapReportsViewAll) {
		return "/reports"
	}
	return "/"
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and establishes a cookie session
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Bad credentials or deactivated account"
// @Failure 403 {object} map[string]string "Device limit reached"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /api/auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), portssvc.LoginParams{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(h.cfg.SessionCookieName, sess.SID, int(h.cfg.SessionTTL.Seconds()), "/", "", h.cfg.IsProduction, true)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:     "Login successful",
		User:        sessionUserResponse(sess),
		RedirectURL: redirectFor(sess),
	})
}

// logout godoc
// @Summary Log out
// @Description Terminates the current session and clears the cookie
// @Tags auth
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sid, err := c.Cookie(h.cfg.SessionCookieName)
	if err == nil && sid != "" {
		if err := h.authService.Logout(c.Request.Context(), sid); err != nil {
			logger.Warn("Logout failed", slog.String("error", err.Error()))
		}
	}

	// Logout is idempotent: no cookie, no session, still a 200.
	c.SetCookie(h.cfg.SessionCookieName, "", -1, "/", "", h.cfg.IsProduction, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// currentSession godoc
// @Summary Current session
// @Description Returns the authenticated user's cached session view
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.SessionUserResponse
// @Failure 401 {object} map[string]string "No live session"
// @Router /api/auth/session [get]
func (h *authHandler) currentSession(c *gin.Context) {
	sess, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, sessionUserResponse(sess))
}
