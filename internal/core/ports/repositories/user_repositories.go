package repositories

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user (with assigned locations) by id.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user with credentials for login checks.
	// Inactive users are returned too; callers decide how to treat them.
	FindUserByUsername(ctx context.Context, username string) (*domain.UserCredentials, error)

	// FindUsers retrieves all users with their assigned locations,
	// ordered by username.
	FindUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user and their location assignments.
	SaveUser(ctx context.Context, user domain.UserCredentials) error

	// UpdateUser updates role, device limit and replaces location
	// assignments (delete-then-insert) in one transaction.
	UpdateUser(ctx context.Context, userID, role string, deviceLimit int, locations []string) error

	// SetUserActive flips the active flag. Users are never hard-deleted.
	SetUserActive(ctx context.Context, userID string, active bool) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
