package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
)

// PivotService manages saved pivot templates. The template config is an
// opaque client-side blob; the server only validates that it is JSON.
type PivotService struct {
	pivotRepo portsrepo.PivotRepositoryFacade
	logger    *slog.Logger

	now func() time.Time
}

func NewPivotService(pivotRepo portsrepo.PivotRepositoryFacade, logger *slog.Logger) *PivotService {
	return &PivotService{pivotRepo: pivotRepo, logger: logger, now: time.Now}
}

var _ portssvc.PivotSvcFacade = (*PivotService)(nil)

func (s *PivotService) ListTemplates(ctx context.Context) ([]domain.PivotTemplate, error) {
	return s.pivotRepo.FindPivotTemplates(ctx)
}

func (s *PivotService) CreateTemplate(ctx context.Context, actorID, name string, config json.RawMessage) (*domain.PivotTemplate, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: template name must not be empty", apperrors.ErrValidation)
	}
	if !json.Valid(config) {
		return nil, fmt.Errorf("%w: template config must be valid JSON", apperrors.ErrValidation)
	}

	tmpl := domain.PivotTemplate{
		Name:      name,
		Config:    config,
		CreatedBy: actorID,
		CreatedAt: s.now().UTC(),
	}
	id, err := s.pivotRepo.SavePivotTemplate(ctx, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to save pivot template: %w", err)
	}
	tmpl.ID = id

	s.logger.InfoContext(ctx, "pivot template saved",
		slog.Int64("templateID", id),
		slog.String("name", name),
		slog.String("createdBy", actorID))
	return &tmpl, nil
}

func (s *PivotService) GetTemplate(ctx context.Context, id int64) (*domain.PivotTemplate, error) {
	return s.pivotRepo.FindPivotTemplateByID(ctx, id)
}

func (s *PivotService) DeleteTemplate(ctx context.Context, actor authz.Actor, id int64) error {
	tmpl, err := s.pivotRepo.FindPivotTemplateByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.OwnerOr(actor, tmpl.CreatedBy, domain.CapRolesManage); err != nil {
		return err
	}

	if err := s.pivotRepo.DeletePivotTemplate(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "pivot template deleted",
		slog.Int64("templateID", id),
		slog.String("deletedBy", actor.UserID))
	return nil
}
