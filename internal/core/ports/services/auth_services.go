package services

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// LoginParams carries everything Login needs besides storage access.
type LoginParams struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// AuthSvcFacade establishes and resolves sessions.
type AuthSvcFacade interface {
	// Login verifies credentials, enforces the device concurrency limit
	// and establishes a session whose payload caches the user's role,
	// assigned locations and resolved capability set.
	Login(ctx context.Context, params LoginParams) (*domain.Session, error)

	// Logout terminates the session.
	Logout(ctx context.Context, sid string) error

	// ResolveSession loads the session payload for a request and touches
	// its last-activity timestamp. apperrors.ErrUnauthorized when the
	// session is gone.
	ResolveSession(ctx context.Context, sid string) (*domain.Session, error)
}

// SessionSvcFacade exposes admin session management.
type SessionSvcFacade interface {
	// SessionsForUser lists a user's live sessions.
	SessionsForUser(ctx context.Context, userID string) ([]domain.Session, error)

	// TerminateSession deletes one session by id.
	TerminateSession(ctx context.Context, sid string) error
}
