package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// CreateReportRequest is the payload for submitting a new daily report.
// Date is a calendar date in YYYY-MM-DD form. Schema is the live settings
// snapshot the client rendered the grid from; it is frozen with the report.
type CreateReportRequest struct {
	Date        string                     `json:"date" binding:"required,datetime=2006-01-02"`
	Location    string                     `json:"location" binding:"required"`
	Data        map[string]decimal.Decimal `json:"data" binding:"required"`
	Schema      domain.ReportSchema        `json:"settings" binding:"required"`
	LateComment string                     `json:"late_comment"`
}

// UpdateReportRequest is the payload for editing an existing report.
type UpdateReportRequest struct {
	Date     string                     `json:"date" binding:"required,datetime=2006-01-02"`
	Location string                     `json:"location" binding:"required"`
	Data     map[string]decimal.Decimal `json:"data" binding:"required"`
	Schema   domain.ReportSchema        `json:"settings" binding:"required"`
}

// ListReportsQuery is the query-string filter for the report listing.
type ListReportsQuery struct {
	Page       int    `form:"page"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	SearchTerm string `form:"searchTerm"`
}

// ReportResponse is one report as returned to clients.
type ReportResponse struct {
	ID          int64                      `json:"id"`
	Date        string                     `json:"date"`
	Location    string                     `json:"location"`
	Data        map[string]decimal.Decimal `json:"data"`
	Schema      domain.ReportSchema        `json:"settings"`
	CreatedBy   string                     `json:"created_by"`
	EditCount   int                        `json:"edit_count"`
	LateComment string                     `json:"late_comment,omitempty"`
}

// ReportListResponse is one page of reports keyed by id, plus paging info.
type ReportListResponse struct {
	Reports     map[int64]ReportResponse `json:"reports"`
	Total       int                      `json:"total"`
	Pages       int                      `json:"pages"`
	CurrentPage int                      `json:"currentPage"`
}

// SubmissionStatusEntry is one branch's submitted/missing flag on the daily
// status dashboard.
type SubmissionStatusEntry struct {
	Name      string `json:"name"`
	Submitted bool   `json:"submitted"`
}

// FieldChangeResponse is one differing cell in a history entry.
type FieldChangeResponse struct {
	Key      string          `json:"key"`
	OldValue decimal.Decimal `json:"oldValue"`
	NewValue decimal.Decimal `json:"newValue"`
}

// HistoryEntryResponse is one revision with its change set relative to the
// report's current data.
type HistoryEntryResponse struct {
	ID                int64                      `json:"id"`
	ChangedBy         string                     `json:"changedBy"`
	ChangedByUsername string                     `json:"changedByUsername"`
	ChangedAt         time.Time                  `json:"changedAt"`
	PriorData         map[string]decimal.Decimal `json:"priorData"`
	Changes           []FieldChangeResponse      `json:"changes"`
}

// ToReportResponse maps a domain report to its response form.
func ToReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		Date:        r.ReportDate.Format("2006-01-02"),
		Location:    r.Location,
		Data:        r.Data,
		Schema:      r.Schema,
		CreatedBy:   r.CreatedBy,
		EditCount:   r.EditCount,
		LateComment: r.LateComment,
	}
}
