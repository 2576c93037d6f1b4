package services

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// RoleSvcFacade manages the permission catalog and role grants.
type RoleSvcFacade interface {
	// ListRoles returns every role with its granted capabilities. The
	// admin role's set is recomputed from the full catalog.
	ListRoles(ctx context.Context) ([]domain.RoleGrant, error)

	// Catalog returns every known capability with description/category.
	Catalog() []domain.CapabilityInfo

	// SetRolePermissions replaces a role's grant set. The admin role is
	// rejected unconditionally; unknown capability keys are validation
	// errors. Live sessions for the role are invalidated afterwards.
	SetRolePermissions(ctx context.Context, roleName string, permissionKeys []string) error
}
