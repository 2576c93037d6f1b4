package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

type PgxRoleRepository struct {
	BaseRepository
}

func newPgxRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepositoryFacade {
	return &PgxRoleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRoleRepository implements portsrepo.RoleRepositoryFacade
var _ portsrepo.RoleRepositoryFacade = (*PgxRoleRepository)(nil)

func (r *PgxRoleRepository) ListRoleNames(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT role_name FROM roles ORDER BY role_name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		names = append(names, name)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", rows.Err())
	}
	return names, nil
}

func (r *PgxRoleRepository) RoleExists(ctx context.Context, roleName string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE role_name = $1);`, roleName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}
	return exists, nil
}

func (r *PgxRoleRepository) ListCapabilitiesForRole(ctx context.Context, roleName string) ([]domain.Capability, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT permission_key FROM role_permissions WHERE role_name = $1 ORDER BY permission_key;
	`, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to query role permissions: %w", err)
	}
	defer rows.Close()

	caps := []domain.Capability{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan role permission row: %w", err)
		}
		// Keys that dropped out of the catalog are skipped: they can never
		// match a check anyway.
		if c, err := domain.ParseCapability(key); err == nil {
			caps = append(caps, c)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating role permission rows: %w", rows.Err())
	}
	return caps, nil
}

// ReplaceRolePermissions swaps the role's grant set atomically:
// delete-all-then-insert-new inside one transaction.
func (r *PgxRoleRepository) ReplaceRolePermissions(ctx context.Context, roleName string, caps []domain.Capability) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_name = $1;`, roleName); err != nil {
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}

	if len(caps) > 0 {
		batch := &pgx.Batch{}
		for _, c := range caps {
			batch.Queue(`INSERT INTO role_permissions (role_name, permission_key) VALUES ($1, $2);`, roleName, string(c))
		}
		br := tx.SendBatch(ctx, batch)
		for range caps {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert role permission: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close permission batch: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}
