package services

import (
	"context"

	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	"github.com/kassatrack/cash_report_app/internal/dto"
)

// ReportListing is one scoped page of reports plus paging bookkeeping.
type ReportListing struct {
	Reports     []domain.Report
	Total       int
	Pages       int
	CurrentPage int
	PageSize    int
}

// ReportSvcFacade owns the report lifecycle: creation with the late-
// submission gate, edits with history archiving, scoped listing and the
// history read path.
type ReportSvcFacade interface {
	// CreateReport validates, authorizes and persists a new report.
	// Past-deadline submissions without a justification comment return
	// apperrors.ErrLateJustificationRequired; duplicates of
	// (date, location) return apperrors.ErrDuplicate.
	CreateReport(ctx context.Context, actor authz.Actor, req dto.CreateReportRequest) (*domain.Report, error)

	// UpdateReport authorizes the edit, re-checks uniqueness when date or
	// location move, archives the prior data blob and applies the new
	// values atomically.
	UpdateReport(ctx context.Context, actor authz.Actor, reportID int64, req dto.UpdateReportRequest) (*domain.Report, error)

	// GetReport retrieves one report subject to view authorization.
	GetReport(ctx context.Context, actor authz.Actor, reportID int64) (*domain.Report, error)

	// ListReports retrieves a page of reports scoped to the actor's
	// allowed locations before pagination, newest id first.
	ListReports(ctx context.Context, actor authz.Actor, query dto.ListReportsQuery) (*ReportListing, error)

	// GetHistory returns the report's revisions newest-first, each with
	// its change set diffed against the report's current data.
	GetHistory(ctx context.Context, actor authz.Actor, reportID int64) ([]domain.RevisionView, error)

	// SubmissionStatus reports, for every branch in the live schema,
	// whether a report exists for the given date.
	SubmissionStatus(ctx context.Context, date string) ([]dto.SubmissionStatusEntry, error)
}

// ReportNotifier is the fire-and-forget notification sink. Implementations
// must never block the caller on delivery; errors are logged, not returned.
type ReportNotifier interface {
	Notify(ctx context.Context, n domain.ReportNotification)
}
