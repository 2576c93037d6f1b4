package dto

import (
	"time"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// CreateUserRequest is the admin payload for provisioning a user.
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required,min=8"`
	Role        string   `json:"role" binding:"required"`
	Locations   []string `json:"locations"`
	DeviceLimit int      `json:"device_limit"`
}

// UpdateUserRequest edits role, branch assignments and device limit.
type UpdateUserRequest struct {
	Role        string   `json:"role" binding:"required"`
	Locations   []string `json:"locations"`
	DeviceLimit int      `json:"device_limit"`
}

// UpdateUserStatusRequest blocks or activates a user.
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ChangePasswordRequest replaces a user's password.
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse is one user row in the admin list, including presence.
type UserResponse struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"is_active"`
	DeviceLimit    int        `json:"device_limit"`
	Locations      []string   `json:"locations"`
	IsOnline       bool       `json:"is_online"`
	LastActivity   *time.Time `json:"last_activity,omitempty"`
	ActiveSessions int        `json:"active_sessions_count"`
}

// ToUserResponse maps a presence-annotated user to its response form.
func ToUserResponse(u domain.UserPresence) UserResponse {
	locations := u.Locations
	if locations == nil {
		locations = []string{}
	}
	return UserResponse{
		ID:             u.UserID,
		Username:       u.Username,
		Role:           u.Role,
		IsActive:       u.IsActive,
		DeviceLimit:    u.DeviceLimit,
		Locations:      locations,
		IsOnline:       u.IsOnline,
		LastActivity:   u.LastActivity,
		ActiveSessions: u.ActiveSessions,
	}
}
