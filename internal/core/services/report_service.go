package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
)

const reportDateLayout = "2006-01-02"

// ReportService owns the report lifecycle: the late-submission gate on
// creation, atomic history archiving on edits, scoped listing and the
// history read path.
type ReportService struct {
	reportRepo portsrepo.ReportRepositoryFacade
	settings   portssvc.SettingsSvcFacade
	notifier   portssvc.ReportNotifier
	cutoffHour int
	logger     *slog.Logger

	now func() time.Time
}

func NewReportService(
	reportRepo portsrepo.ReportRepositoryFacade,
	settings portssvc.SettingsSvcFacade,
	notifier portssvc.ReportNotifier,
	cutoffHour int,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		settings:   settings,
		notifier:   notifier,
		cutoffHour: cutoffHour,
		logger:     logger,
		now:        time.Now,
	}
}

var _ portssvc.ReportSvcFacade = (*ReportService)(nil)

func (s *ReportService) CreateReport(ctx context.Context, actor authz.Actor, req dto.CreateReportRequest) (*domain.Report, error) {
	reportDate, err := time.ParseInLocation(reportDateLayout, req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid report date %q", apperrors.ErrValidation, req.Date)
	}

	if err := authz.Decide(actor, authz.OpCreate, authz.ReportRef{Location: req.Location}); err != nil {
		return nil, err
	}

	now := s.now()
	if domain.IsLateSubmission(reportDate, now, s.cutoffHour) && req.LateComment == "" {
		return nil, fmt.Errorf("%w: report for %s is past its deadline", apperrors.ErrLateJustificationRequired, req.Date)
	}

	report := domain.Report{
		ReportDate:  reportDate,
		Location:    req.Location,
		Data:        req.Data,
		Schema:      req.Schema,
		CreatedBy:   actor.UserID,
		CreatedAt:   now.UTC(),
		LateComment: req.LateComment,
	}

	id, err := s.reportRepo.CreateReport(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = id

	s.logger.InfoContext(ctx, "report created",
		slog.Int64("reportID", id),
		slog.String("date", req.Date),
		slog.String("location", req.Location),
		slog.String("createdBy", actor.UserID),
		slog.Bool("late", report.LateComment != ""))

	s.notifier.Notify(ctx, domain.ReportNotification{
		Kind:        domain.NotificationNew,
		ReportID:    id,
		Location:    report.Location,
		Date:        req.Date,
		Actor:       actor.UserID,
		Data:        report.Data,
		Schema:      report.Schema,
		LateComment: report.LateComment,
	})
	return &report, nil
}

func (s *ReportService) UpdateReport(ctx context.Context, actor authz.Actor, reportID int64, req dto.UpdateReportRequest) (*domain.Report, error) {
	current, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	// Edit authorization is decided against the stored report, not the
	// requested values: moving a report out of scope requires edit rights
	// on where it is now.
	if err := authz.Decide(actor, authz.OpEdit, authz.ReportRef{
		Location:  current.Location,
		CreatedBy: current.CreatedBy,
	}); err != nil {
		return nil, err
	}

	reportDate, err := time.ParseInLocation(reportDateLayout, req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid report date %q", apperrors.ErrValidation, req.Date)
	}
	if current.Location != req.Location {
		// The new branch must also be in scope.
		if err := authz.Decide(actor, authz.OpEdit, authz.ReportRef{
			Location:  req.Location,
			CreatedBy: current.CreatedBy,
		}); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	updated := *current
	updated.ReportDate = reportDate
	updated.Location = req.Location
	updated.Data = req.Data
	updated.Schema = req.Schema
	updated.UpdatedBy = &actor.UserID
	updated.UpdatedAt = &now

	if err := s.reportRepo.UpdateReportWithHistory(ctx, updated, actor.UserID, now); err != nil {
		return nil, err
	}

	// Re-read for the fresh edit count.
	refreshed, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "report updated",
		slog.Int64("reportID", reportID),
		slog.String("location", req.Location),
		slog.String("updatedBy", actor.UserID),
		slog.Int("editCount", refreshed.EditCount))

	s.notifier.Notify(ctx, domain.ReportNotification{
		Kind:      domain.NotificationEdit,
		ReportID:  reportID,
		Location:  refreshed.Location,
		Date:      req.Date,
		Actor:     actor.UserID,
		Data:      refreshed.Data,
		PriorData: current.Data,
		Schema:    refreshed.Schema,
	})
	return refreshed, nil
}

func (s *ReportService) GetReport(ctx context.Context, actor authz.Actor, reportID int64) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(actor, authz.OpView, authz.ReportRef{
		Location:  report.Location,
		CreatedBy: report.CreatedBy,
	}); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, actor authz.Actor, query dto.ListReportsQuery) (*portssvc.ReportListing, error) {
	pageSize := s.settings.PaginationLimit(ctx)
	page := query.Page
	if page < 1 {
		page = 1
	}

	scope := authz.ViewScopeFor(actor)
	filter := portsrepo.ReportFilter{
		AllLocations: scope.All,
		Locations:    scope.Locations,
		SearchTerm:   query.SearchTerm,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	}

	if query.StartDate != "" {
		start, err := time.ParseInLocation(reportDateLayout, query.StartDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, query.StartDate)
		}
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := time.ParseInLocation(reportDateLayout, query.EndDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, query.EndDate)
		}
		filter.EndDate = &end
	}

	result, err := s.reportRepo.ListReports(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := (result.Total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return &portssvc.ReportListing{
		Reports:     result.Reports,
		Total:       result.Total,
		Pages:       pages,
		CurrentPage: page,
		PageSize:    pageSize,
	}, nil
}

// SubmissionStatus answers, for one calendar date, which branches of the
// live schema have a report on file. Branches are the schema's, not the
// caller's assignments: the dashboard shows the whole picture.
func (s *ReportService) SubmissionStatus(ctx context.Context, date string) ([]dto.SubmissionStatusEntry, error) {
	day, err := time.ParseInLocation(reportDateLayout, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, date)
	}

	schema, err := s.settings.LiveSchema(ctx)
	if err != nil {
		return nil, err
	}

	reported, err := s.reportRepo.ListReportedLocations(ctx, day)
	if err != nil {
		return nil, err
	}
	submitted := make(map[string]struct{}, len(reported))
	for _, loc := range reported {
		submitted[loc] = struct{}{}
	}

	statuses := make([]dto.SubmissionStatusEntry, len(schema.Locations))
	for i, loc := range schema.Locations {
		_, ok := submitted[loc]
		statuses[i] = dto.SubmissionStatusEntry{Name: loc, Submitted: ok}
	}
	return statuses, nil
}

func (s *ReportService) GetHistory(ctx context.Context, actor authz.Actor, reportID int64) ([]domain.RevisionView, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(actor, authz.OpView, authz.ReportRef{
		Location:  report.Location,
		CreatedBy: report.CreatedBy,
	}); err != nil {
		return nil, err
	}

	entries, err := s.reportRepo.ListRevisions(ctx, reportID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.RevisionView, len(entries))
	for i, entry := range entries {
		views[i] = domain.RevisionView{
			RevisionEntry: entry,
			Changes:       entry.DiffAgainstCurrent(report.Data),
		}
	}
	return views, nil
}
