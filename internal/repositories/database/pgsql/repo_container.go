package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every pgsql-backed repository over a shared
// connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:     newPgxUserRepository(dbPool),
		ReportRepo:   newPgxReportRepository(dbPool),
		RoleRepo:     newPgxRoleRepository(dbPool),
		PivotRepo:    newPgxPivotRepository(dbPool),
		SettingsRepo: newPgxSettingsRepository(dbPool),
	}
}
