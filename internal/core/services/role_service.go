package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
)

// RoleService manages the permission catalog and role grants. The admin
// role's grant is never stored or editable; it is always the full catalog.
type RoleService struct {
	roleRepo portsrepo.RoleRepositoryFacade
	sessions portsrepo.SessionStore
	logger   *slog.Logger
}

func NewRoleService(roleRepo portsrepo.RoleRepositoryFacade, sessions portsrepo.SessionStore, logger *slog.Logger) *RoleService {
	return &RoleService{roleRepo: roleRepo, sessions: sessions, logger: logger}
}

var _ portssvc.RoleSvcFacade = (*RoleService)(nil)

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.RoleGrant, error) {
	names, err := s.roleRepo.ListRoleNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	grants := make([]domain.RoleGrant, len(names))
	for i, name := range names {
		grant := domain.RoleGrant{RoleName: name}
		if name == domain.RoleAdmin {
			grant.Capabilities = domain.AllCapabilities()
		} else {
			caps, err := s.roleRepo.ListCapabilitiesForRole(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to load grant for role %q: %w", name, err)
			}
			grant.Capabilities = caps
		}
		grants[i] = grant
	}
	return grants, nil
}

func (s *RoleService) Catalog() []domain.CapabilityInfo {
	return domain.CapabilityCatalog()
}

func (s *RoleService) SetRolePermissions(ctx context.Context, roleName string, permissionKeys []string) error {
	if roleName == domain.RoleAdmin {
		return fmt.Errorf("%w: the admin role always holds every permission", apperrors.ErrForbidden)
	}

	exists, err := s.roleRepo.RoleExists(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to check role %q: %w", roleName, err)
	}
	if !exists {
		return fmt.Errorf("%w: role %q", apperrors.ErrNotFound, roleName)
	}

	caps, err := domain.ParseCapabilities(permissionKeys)
	if err != nil {
		return err
	}

	if err := s.roleRepo.ReplaceRolePermissions(ctx, roleName, caps); err != nil {
		return fmt.Errorf("failed to replace grant for role %q: %w", roleName, err)
	}

	// Sessions cache their capability snapshot at login, so a grant change
	// forces the role's users to re-login.
	invalidated, err := s.sessions.InvalidateSessionsForRole(ctx, roleName)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate sessions after grant change",
			slog.String("role", roleName), slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "role permissions replaced",
		slog.String("role", roleName),
		slog.Int("permissions", len(caps)),
		slog.Int("sessionsInvalidated", invalidated))
	return nil
}
