package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/middleware"
)

// dashboardHandler serves the daily submission-status view.
type dashboardHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newDashboardHandler(rs portssvc.ReportSvcFacade) *dashboardHandler {
	return &dashboardHandler{reportService: rs}
}

// registerDashboardRoutes registers the manager-grade dashboard routes.
func registerDashboardRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newDashboardHandler(reportService)

	dashboard := rg.Group("/dashboard",
		middleware.RequireAnyCapability(domain.CapUsersView, domain.CapSettingsView))
	{
		dashboard.GET("/status", h.getStatus)
	}
}

// getStatus godoc
// @Summary Daily submission status per branch
// @Description For the given date, flags which live-schema branches have a report on file
// @Tags dashboard
// @Produce  json
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} dto.SubmissionStatusEntry
// @Failure 400 {object} map[string]string "Missing or invalid date"
// @Router /dashboard/status [get]
func (h *dashboardHandler) getStatus(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	statuses, err := h.reportService.SubmissionStatus(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
