package dto

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionUserResponse is the caller-visible slice of the session payload.
type SessionUserResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Locations   []string `json:"locations"`
	Permissions []string `json:"permissions"`
}

// LoginResponse is returned on successful login. RedirectURL tells the
// front-end which surface to open first.
type LoginResponse struct {
	Message     string              `json:"message"`
	User        SessionUserResponse `json:"user"`
	RedirectURL string              `json:"redirectUrl"`
}

// SessionResponse describes one live session in the admin session list.
type SessionResponse struct {
	SID          string `json:"sid"`
	IPAddress    string `json:"ipAddress"`
	UserAgent    string `json:"userAgent"`
	CreatedAt    string `json:"createdAt"`
	LastActivity string `json:"lastActivity"`
}
