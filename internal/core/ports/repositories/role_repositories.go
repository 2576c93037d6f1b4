package repositories

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// RoleReader defines read operations for roles and their grants.
type RoleReader interface {
	// ListRoleNames retrieves all role names.
	ListRoleNames(ctx context.Context) ([]string, error)

	// RoleExists reports whether the role is registered.
	RoleExists(ctx context.Context, roleName string) (bool, error)

	// ListCapabilitiesForRole retrieves the stored grant set for a role.
	// The admin role is never read through here; its set is recomputed
	// from the catalog.
	ListCapabilitiesForRole(ctx context.Context, roleName string) ([]domain.Capability, error)
}

// RoleWriter defines write operations for role grants.
type RoleWriter interface {
	// ReplaceRolePermissions deletes the role's grant set and inserts the
	// new one inside a single transaction, so a mid-write failure cannot
	// leave a partial grant set.
	ReplaceRolePermissions(ctx context.Context, roleName string, caps []domain.Capability) error
}

// RoleRepositoryFacade combines role read and write interfaces.
type RoleRepositoryFacade interface {
	RoleReader
	RoleWriter
}
