package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/middleware"
)

// reportHandler handles HTTP requests for daily reports and their history.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: rs}
}

// registerReportRoutes registers all report-related routes. Authorization
// is branch- and ownership-aware, so it lives in the service rather than in
// per-route capability guards.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.POST("", h.createReport)
		reports.GET("/:id", h.getReport)
		reports.PUT("/:id", h.updateReport)
		reports.GET("/:id/history", h.getHistory)
	}
}

func reportIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return 0, false
	}
	return id, true
}

// createReport godoc
// @Summary Submit a daily report
// @Description Creates a report for one branch and date. Past-deadline submissions must carry a late_comment.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   report body dto.CreateReportRequest true "Report payload"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Branch not allowed"
// @Failure 409 {object} map[string]string "Report already exists for this date and branch"
// @Failure 428 {object} map[string]string "Late justification required"
// @Router /reports [post]
func (h *reportHandler) createReport(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}

// updateReport godoc
// @Summary Edit a report
// @Description Applies new values and archives the prior data into the revision history.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   id path int true "Report ID"
// @Param   report body dto.UpdateReportRequest true "New values"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Not allowed to edit this report"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Another report occupies the target date and branch"
// @Router /reports/{id} [put]
func (h *reportHandler) updateReport(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := reportIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// getReport godoc
// @Summary Get one report
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} map[string]string "Branch not allowed"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := reportIDParam(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// listReports godoc
// @Summary List reports
// @Description Returns a page of reports scoped to the caller's branches, newest first.
// @Tags reports
// @Produce  json
// @Param   page query int false "Page number (1-based)"
// @Param   startDate query string false "Filter from date (YYYY-MM-DD)"
// @Param   endDate query string false "Filter to date (YYYY-MM-DD)"
// @Param   searchTerm query string false "Matches report id or branch name"
// @Success 200 {object} dto.ReportListResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var query dto.ListReportsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	listing, err := h.reportService.ListReports(c.Request.Context(), actor, query)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Debug("Reports listed", slog.Int("total", listing.Total), slog.Int("page", listing.CurrentPage))

	reports := make(map[int64]dto.ReportResponse, len(listing.Reports))
	for i := range listing.Reports {
		reports[listing.Reports[i].ID] = dto.ToReportResponse(&listing.Reports[i])
	}
	c.JSON(http.StatusOK, dto.ReportListResponse{
		Reports:     reports,
		Total:       listing.Total,
		Pages:       listing.Pages,
		CurrentPage: listing.CurrentPage,
	})
}

// getHistory godoc
// @Summary Report revision history
// @Description Returns the report's edits newest first, each diffed against the current data.
// @Tags reports
// @Produce  json
// @Param   id path int true "Report ID"
// @Success 200 {array} dto.HistoryEntryResponse
// @Failure 403 {object} map[string]string "Branch not allowed"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id}/history [get]
func (h *reportHandler) getHistory(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := reportIDParam(c)
	if !ok {
		return
	}

	views, err := h.reportService.GetHistory(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.HistoryEntryResponse, len(views))
	for i, v := range views {
		changes := make([]dto.FieldChangeResponse, len(v.Changes))
		for j, ch := range v.Changes {
			changes[j] = dto.FieldChangeResponse{Key: ch.Key, OldValue: ch.OldValue, NewValue: ch.NewValue}
		}
		out[i] = dto.HistoryEntryResponse{
			ID:                v.ID,
			ChangedBy:         v.ChangedBy,
			ChangedByUsername: v.ChangedByUsername,
			ChangedAt:         v.ChangedAt,
			PriorData:         v.PriorData,
			Changes:           changes,
		}
	}
	c.JSON(http.StatusOK, out)
}
