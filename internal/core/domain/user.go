package domain

import "time"

// Role names seeded at install time. The roles table is extensible; these
// three always exist.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// User represents an account that can sign in and submit reports.
// Users are never hard-deleted: deactivation flips IsActive and terminates
// the user's sessions.
type User struct {
	UserID      string    `json:"userID"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
	DeviceLimit int       `json:"deviceLimit"`
	Locations   []string  `json:"locations"` // assigned branch names; empty for admin means "all"
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserCredentials carries the stored password hash alongside the user. Kept
// separate so the hash never travels with the plain User entity.
type UserCredentials struct {
	User
	PasswordHash string `json:"-"`
}

// UserPresence is a user plus live-session information for the admin user
// list. Presence is computed from the session store at read time.
type UserPresence struct {
	User
	IsOnline       bool       `json:"isOnline"`
	LastActivity   *time.Time `json:"lastActivity,omitempty"`
	ActiveSessions int        `json:"activeSessions"`
}

// RoleGrant pairs a role name with its granted capability set.
type RoleGrant struct {
	RoleName     string       `json:"roleName"`
	Capabilities []Capability `json:"capabilities"`
}
