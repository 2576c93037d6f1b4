package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/middleware"
)

// pivotHandler handles saved pivot template management.
type pivotHandler struct {
	pivotService portssvc.PivotSvcFacade
}

func newPivotHandler(ps portssvc.PivotSvcFacade) *pivotHandler {
	return &pivotHandler{pivotService: ps}
}

// registerPivotRoutes registers the pivot template routes. Templates are a
// manager-grade tool: the whole group requires a users:view or settings:view
// grant; deletion additionally checks owner-or-privileged inside the service.
func registerPivotRoutes(rg *gin.RouterGroup, pivotService portssvc.PivotSvcFacade) {
	h := newPivotHandler(pivotService)

	templates := rg.Group("/pivot-templates",
		middleware.RequireAnyCapability(domain.CapUsersView, domain.CapSettingsView))
	{
		templates.GET("", h.listTemplates)
		templates.POST("", h.createTemplate)
		templates.GET("/:id", h.getTemplate)
		templates.DELETE("/:id", h.deleteTemplate)
	}
}

func templateIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return 0, false
	}
	return id, true
}

// listTemplates godoc
// @Summary List pivot templates
// @Tags pivot
// @Produce  json
// @Success 200 {array} dto.PivotTemplateResponse
// @Router /pivot-templates [get]
func (h *pivotHandler) listTemplates(c *gin.Context) {
	templates, err := h.pivotService.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.PivotTemplateResponse, len(templates))
	for i, t := range templates {
		out[i] = dto.PivotTemplateResponse{ID: t.ID, Name: t.Name, CreatedBy: t.CreatedBy}
	}
	c.JSON(http.StatusOK, out)
}

// createTemplate godoc
// @Summary Save a pivot template
// @Tags pivot
// @Accept  json
// @Produce  json
// @Param   template body dto.CreatePivotTemplateRequest true "Template"
// @Success 201 {object} dto.PivotTemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /pivot-templates [post]
func (h *pivotHandler) createTemplate(c *gin.Context) {
	sess, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreatePivotTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tmpl, err := h.pivotService.CreateTemplate(c.Request.Context(), sess.UserID, req.Name, req.Config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PivotTemplateResponse{ID: tmpl.ID, Name: tmpl.Name, CreatedBy: tmpl.CreatedBy})
}

// getTemplate godoc
// @Summary Load a pivot template with its configuration
// @Tags pivot
// @Produce  json
// @Param   id path int true "Template ID"
// @Success 200 {object} domain.PivotTemplate
// @Failure 404 {object} map[string]string "Template not found"
// @Router /pivot-templates/{id} [get]
func (h *pivotHandler) getTemplate(c *gin.Context) {
	id, ok := templateIDParam(c)
	if !ok {
		return
	}

	tmpl, err := h.pivotService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// deleteTemplate godoc
// @Summary Delete a pivot template
// @Description Allowed for the template's owner or a roles:manage holder
// @Tags pivot
// @Produce  json
// @Param   id path int true "Template ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /pivot-templates/{id} [delete]
func (h *pivotHandler) deleteTemplate(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := templateIDParam(c)
	if !ok {
		return
	}

	if err := h.pivotService.DeleteTemplate(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}
