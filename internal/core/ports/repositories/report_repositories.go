package repositories

import (
	"context"
	"time"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// ReportFilter describes a scoped, filtered, paginated report listing.
// Location scoping is part of the query itself so pagination never runs over
// a superset that is filtered afterwards.
type ReportFilter struct {
	// AllLocations short-circuits location scoping (reports:view_all).
	AllLocations bool
	// Locations restricts the listing when AllLocations is false. An empty
	// slice with AllLocations false yields an empty page.
	Locations []string

	StartDate  *time.Time
	EndDate    *time.Time
	SearchTerm string

	Limit  int
	Offset int
}

// ReportPage is one page of report summaries plus the unpaginated total.
type ReportPage struct {
	Reports []domain.Report
	Total   int
}

// ReportReader defines read operations for reports and their history.
type ReportReader interface {
	// FindReportByID retrieves a report including its edit count.
	FindReportByID(ctx context.Context, reportID int64) (*domain.Report, error)

	// ListReports retrieves a page of reports, newest id first.
	ListReports(ctx context.Context, filter ReportFilter) (*ReportPage, error)

	// ListRevisions retrieves the history entries for a report,
	// newest first.
	ListRevisions(ctx context.Context, reportID int64) ([]domain.RevisionEntry, error)

	// ListReportedLocations returns the locations that have a report for
	// the given date.
	ListReportedLocations(ctx context.Context, date time.Time) ([]string, error)
}

// ReportWriter defines write operations for reports.
type ReportWriter interface {
	// CreateReport inserts a new report and returns its id. A
	// (report_date, location) uniqueness violation surfaces as
	// apperrors.ErrDuplicate.
	CreateReport(ctx context.Context, report domain.Report) (int64, error)

	// UpdateReportWithHistory re-reads and locks the current row, archives
	// its data blob verbatim into report_history, then applies the new
	// report values — all in a single database transaction. A failure at
	// any step leaves the report unmodified and the history entry absent.
	UpdateReportWithHistory(ctx context.Context, updated domain.Report, editorID string, editedAt time.Time) error
}

// ReportRepositoryFacade combines report read and write interfaces.
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}
