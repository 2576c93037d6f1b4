package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/middleware"
)

// userHandler handles admin user management and session management.
type userHandler struct {
	userService    portssvc.UserSvcFacade
	sessionService portssvc.SessionSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade, ss portssvc.SessionSvcFacade) *userHandler {
	return &userHandler{userService: us, sessionService: ss}
}

// registerUserRoutes registers all user-related routes. Each route is gated
// on a single capability.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, sessionService portssvc.SessionSvcFacade) {
	h := newUserHandler(userService, sessionService)

	users := rg.Group("/users")
	{
		users.GET("", middleware.RequireCapability(domain.CapUsersView), h.listUsers)
		users.POST("", middleware.RequireCapability(domain.CapUsersCreate), h.createUser)
		users.GET("/:id", middleware.RequireCapability(domain.CapUsersView), h.getUser)
		users.PUT("/:id", middleware.RequireCapability(domain.CapUsersEdit), h.updateUser)
		users.PATCH("/:id/status", middleware.RequireCapability(domain.CapUsersChangeStatus), h.updateUserStatus)
		users.PUT("/:id/password", middleware.RequireCapability(domain.CapUsersEdit), h.changePassword)
		users.GET("/:id/sessions", middleware.RequireCapability(domain.CapUsersManageSessions), h.listSessions)
	}
	rg.DELETE("/sessions/:sid", middleware.RequireCapability(domain.CapUsersManageSessions), h.terminateSession)
}

// listUsers godoc
// @Summary List users
// @Description Returns every user with branch assignments and live presence
// @Tags users
// @Produce  json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = dto.ToUserResponse(u)
	}
	c.JSON(http.StatusOK, out)
}

// createUser godoc
// @Summary Create a user
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Username taken"
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(domain.UserPresence{User: *user}))
}

// getUser godoc
// @Summary Get a user
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(domain.UserPresence{User: *user}))
}

// updateUser godoc
// @Summary Edit a user
// @Description Changes role, branch assignments and device limit
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   user body dto.UpdateUserRequest true "New values"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(domain.UserPresence{User: *user}))
}

// updateUserStatus godoc
// @Summary Block or activate a user
// @Description Deactivation also terminates every live session of the user
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   status body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Cannot change own status"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/status [patch]
func (h *userHandler) updateUserStatus(c *gin.Context) {
	sess, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.userService.SetUserStatus(c.Request.Context(), sess.UserID, c.Param("id"), *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// changePassword godoc
// @Summary Change a user's password
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   password body dto.ChangePasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/password [put]
func (h *userHandler) changePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), c.Param("id"), req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// listSessions godoc
// @Summary List a user's live sessions
// @Tags sessions
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {array} dto.SessionResponse
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /users/{id}/sessions [get]
func (h *userHandler) listSessions(c *gin.Context) {
	sessions, err := h.sessionService.SessionsForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.SessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = dto.SessionResponse{
			SID:          s.SID,
			IPAddress:    s.IPAddress,
			UserAgent:    s.UserAgent,
			CreatedAt:    s.CreatedAt.Format(time.RFC3339),
			LastActivity: s.LastActivity.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, out)
}

// terminateSession godoc
// @Summary Terminate a session
// @Tags sessions
// @Produce  json
// @Param   sid path string true "Session ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sid} [delete]
func (h *userHandler) terminateSession(c *gin.Context) {
	if err := h.sessionService.TerminateSession(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session terminated"})
}
