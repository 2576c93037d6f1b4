package services

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	"github.com/kassatrack/cash_report_app/internal/dto"
)

// UserSvcFacade owns user provisioning and lifecycle. All operations here
// are admin-guarded at the route level; self-modification guards live in the
// service itself.
type UserSvcFacade interface {
	// ListUsers returns every user with locations and live presence.
	ListUsers(ctx context.Context) ([]domain.UserPresence, error)

	// GetUserByID retrieves one user with locations.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// CreateUser provisions a user. Operators and managers must have at
	// least one assigned location.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser changes role, locations and device limit.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// SetUserStatus activates or blocks a user. Actors cannot change
	// their own status; deactivation terminates the user's sessions.
	SetUserStatus(ctx context.Context, actorID, userID string, active bool) error

	// ChangePassword replaces the user's password hash.
	ChangePassword(ctx context.Context, userID, newPassword string) error
}
