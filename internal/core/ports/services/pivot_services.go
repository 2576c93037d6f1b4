package services

import (
	"context"
	"encoding/json"

	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// PivotSvcFacade manages saved pivot templates.
type PivotSvcFacade interface {
	ListTemplates(ctx context.Context) ([]domain.PivotTemplate, error)
	CreateTemplate(ctx context.Context, actorID, name string, config json.RawMessage) (*domain.PivotTemplate, error)
	GetTemplate(ctx context.Context, id int64) (*domain.PivotTemplate, error)

	// DeleteTemplate allows the owner or a roles:manage holder.
	DeleteTemplate(ctx context.Context, actor authz.Actor, id int64) error
}
