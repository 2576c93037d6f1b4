package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

type PgxPivotRepository struct {
	BaseRepository
}

func newPgxPivotRepository(pool *pgxpool.Pool) portsrepo.PivotRepositoryFacade {
	return &PgxPivotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PivotRepositoryFacade = (*PgxPivotRepository)(nil)

func (r *PgxPivotRepository) SavePivotTemplate(ctx context.Context, tmpl domain.PivotTemplate) (int64, error) {
	var id int64
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO pivot_templates (name, config, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`, tmpl.Name, []byte(tmpl.Config), tmpl.CreatedBy, tmpl.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save pivot template: %w", err)
	}
	return id, nil
}

func (r *PgxPivotRepository) FindPivotTemplates(ctx context.Context) ([]domain.PivotTemplate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, name, created_by, created_at FROM pivot_templates ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pivot templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.PivotTemplate{}
	for rows.Next() {
		var t domain.PivotTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pivot template row: %w", err)
		}
		templates = append(templates, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating pivot template rows: %w", rows.Err())
	}
	return templates, nil
}

func (r *PgxPivotRepository) FindPivotTemplateByID(ctx context.Context, id int64) (*domain.PivotTemplate, error) {
	var t domain.PivotTemplate
	var config []byte
	err := r.Pool.QueryRow(ctx, `
		SELECT id, name, config, created_by, created_at FROM pivot_templates WHERE id = $1;
	`, id).Scan(&t.ID, &t.Name, &config, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pivot template %d: %w", id, err)
	}
	t.Config = config
	return &t, nil
}

func (r *PgxPivotRepository) DeletePivotTemplate(ctx context.Context, id int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM pivot_templates WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pivot template %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
