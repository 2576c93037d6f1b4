package services

import (
	"log/slog"
	"time"

	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
)

// ContainerDeps bundles everything the service layer needs besides the
// repositories.
type ContainerDeps struct {
	Repos      portsrepo.RepositoryProvider
	Sessions   portsrepo.SessionStore
	Notifier   portssvc.ReportNotifier
	SessionTTL time.Duration
	CutoffHour int
	Logger     *slog.Logger
}

// NewContainer creates the service container with properly initialized
// dependencies. Settings is built first because reports draw pagination and
// schema defaults from it.
func NewContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	settings := NewSettingsService(deps.Repos.SettingsRepo, deps.Logger)

	return &portssvc.ServiceContainer{
		Auth:     NewAuthService(deps.Repos.UserRepo, deps.Repos.RoleRepo, deps.Sessions, deps.SessionTTL, deps.Logger),
		Sessions: NewSessionService(deps.Sessions, deps.Logger),
		User:     NewUserService(deps.Repos.UserRepo, deps.Repos.RoleRepo, deps.Sessions, deps.Logger),
		Report:   NewReportService(deps.Repos.ReportRepo, settings, deps.Notifier, deps.CutoffHour, deps.Logger),
		Role:     NewRoleService(deps.Repos.RoleRepo, deps.Sessions, deps.Logger),
		Pivot:    NewPivotService(deps.Repos.PivotRepo, deps.Logger),
		Settings: settings,
	}
}
