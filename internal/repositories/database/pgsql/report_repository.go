package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	"github.com/kassatrack/cash_report_app/internal/models"
	"github.com/kassatrack/cash_report_app/internal/utils/mapping"
)

type PgxReportRepository struct {
	BaseRepository
}

// newPgxReportRepository creates the repository for reports and their
// revision history.
func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportColumns = `
	r.id, r.report_date, r.location, r.data, r.settings,
	r.created_by, r.created_at, r.updated_by, r.updated_at, r.late_comment,
	(SELECT COUNT(*) FROM report_history h WHERE h.report_id = r.id) AS edit_count
`

func (r *PgxReportRepository) CreateReport(ctx context.Context, report domain.Report) (int64, error) {
	modelReport, err := mapping.ToModelReport(report)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO reports (report_date, location, data, settings, created_by, created_at, late_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var id int64
	err = r.Pool.QueryRow(ctx, query,
		modelReport.ReportDate,
		modelReport.Location,
		modelReport.Data,
		modelReport.Settings,
		modelReport.CreatedBy,
		modelReport.CreatedAt,
		modelReport.LateComment,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: a report for %s at %q already exists",
				apperrors.ErrDuplicate, report.ReportDate.Format("2006-01-02"), report.Location)
		}
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	return id, nil
}

func (r *PgxReportRepository) FindReportByID(ctx context.Context, reportID int64) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports r WHERE r.id = $1;`

	modelReport, err := scanReport(r.Pool.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report %d: %w", reportID, err)
	}

	domainReport, err := mapping.ToDomainReport(modelReport)
	if err != nil {
		return nil, err
	}
	return &domainReport, nil
}

func (r *PgxReportRepository) ListReports(ctx context.Context, filter portsrepo.ReportFilter) (*portsrepo.ReportPage, error) {
	// A caller scoped to no locations at all sees an empty page; never
	// widen the scope at this layer.
	if !filter.AllLocations && len(filter.Locations) == 0 {
		return &portsrepo.ReportPage{Reports: []domain.Report{}, Total: 0}, nil
	}

	where := ""
	args := []any{}
	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if !filter.AllLocations {
		args = append(args, filter.Locations)
		and("r.location = ANY($" + strconv.Itoa(len(args)) + ")")
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		and("r.report_date >= $" + strconv.Itoa(len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		and("r.report_date <= $" + strconv.Itoa(len(args)))
	}
	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		n := strconv.Itoa(len(args))
		and("(CAST(r.id AS TEXT) ILIKE $" + n + " OR r.location ILIKE $" + n + ")")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reports r` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	args = append(args, filter.Limit)
	limitArg := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetArg := strconv.Itoa(len(args))

	query := `SELECT ` + reportColumns + ` FROM reports r` + where +
		` ORDER BY r.id DESC LIMIT $` + limitArg + ` OFFSET $` + offsetArg + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		modelReport, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		domainReport, err := mapping.ToDomainReport(modelReport)
		if err != nil {
			return nil, err
		}
		reports = append(reports, domainReport)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", rows.Err())
	}

	return &portsrepo.ReportPage{Reports: reports, Total: total}, nil
}

// UpdateReportWithHistory archives the pre-edit data blob and applies the
// new values inside one transaction. The current row is re-read under a row
// lock so the archived snapshot is exactly what a read would have returned
// just before this edit.
func (r *PgxReportRepository) UpdateReportWithHistory(ctx context.Context, updated domain.Report, editorID string, editedAt time.Time) error {
	modelReport, err := mapping.ToModelReport(updated)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var priorData []byte
	err = tx.QueryRow(ctx, `SELECT data FROM reports WHERE id = $1 FOR UPDATE;`, updated.ID).Scan(&priorData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock report %d: %w", updated.ID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO report_history (report_id, old_data, changed_by, changed_at)
		VALUES ($1, $2, $3, $4);
	`, updated.ID, priorData, editorID, editedAt)
	if err != nil {
		return fmt.Errorf("failed to archive report %d history: %w", updated.ID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE reports
		SET report_date = $1, location = $2, data = $3, settings = $4, updated_by = $5, updated_at = $6
		WHERE id = $7;
	`,
		modelReport.ReportDate,
		modelReport.Location,
		modelReport.Data,
		modelReport.Settings,
		editorID,
		editedAt,
		updated.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a report for %s at %q already exists",
				apperrors.ErrDuplicate, updated.ReportDate.Format("2006-01-02"), updated.Location)
		}
		return fmt.Errorf("failed to update report %d: %w", updated.ID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxReportRepository) ListRevisions(ctx context.Context, reportID int64) ([]domain.RevisionEntry, error) {
	query := `
		SELECT h.id, h.report_id, h.old_data, h.changed_by, u.username, h.changed_at
		FROM report_history h
		JOIN users u ON u.user_id = h.changed_by
		WHERE h.report_id = $1
		ORDER BY h.changed_at DESC, h.id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	entries := []domain.RevisionEntry{}
	for rows.Next() {
		var m models.ReportHistory
		err := rows.Scan(&m.ID, &m.ReportID, &m.OldData, &m.ChangedBy, &m.ChangedByUsername, &m.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry, err := mapping.ToDomainRevision(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", rows.Err())
	}

	return entries, nil
}

func (r *PgxReportRepository) ListReportedLocations(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT location FROM reports WHERE report_date = $1 ORDER BY location;
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query reported locations: %w", err)
	}
	defer rows.Close()

	locations := []string{}
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("failed to scan reported location row: %w", err)
		}
		locations = append(locations, loc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating reported location rows: %w", rows.Err())
	}
	return locations, nil
}

func scanReport(row pgx.Row) (models.Report, error) {
	var m models.Report
	err := row.Scan(
		&m.ReportID,
		&m.ReportDate,
		&m.Location,
		&m.Data,
		&m.Settings,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedBy,
		&m.UpdatedAt,
		&m.LateComment,
		&m.EditCount,
	)
	return m, err
}
