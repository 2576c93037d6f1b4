package repositories

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// PivotRepositoryFacade persists saved pivot templates.
type PivotRepositoryFacade interface {
	SavePivotTemplate(ctx context.Context, tmpl domain.PivotTemplate) (int64, error)
	FindPivotTemplates(ctx context.Context) ([]domain.PivotTemplate, error)
	FindPivotTemplateByID(ctx context.Context, id int64) (*domain.PivotTemplate, error)
	DeletePivotTemplate(ctx context.Context, id int64) error
}
