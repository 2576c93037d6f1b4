package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/middleware"
)

// settingsHandler handles reading and writing key-value settings.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{settingsService: ss}
}

// registerSettingsRoutes registers the settings routes. Reading is gated on
// settings:view; the per-key write capability is decided in the service.
func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsService)

	settings := rg.Group("/settings")
	{
		settings.GET("", middleware.RequireCapability(domain.CapSettingsView), h.getSettings)
		settings.PUT("", h.upsertSetting)
	}
	rg.GET("/schema", h.getSchema)
}

// getSettings godoc
// @Summary All settings
// @Description Returns every setting with defaults filled in
// @Tags settings
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	settings, err := h.settingsService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// upsertSetting godoc
// @Summary Store one setting
// @Description The required capability depends on the key (table, telegram or general)
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   setting body dto.UpsertSettingRequest true "Key and value"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid value"
// @Failure 403 {object} map[string]string "Insufficient permissions for this key"
// @Router /settings [put]
func (h *settingsHandler) upsertSetting(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.settingsService.Upsert(c.Request.Context(), actor, req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setting updated"})
}

// getSchema godoc
// @Summary Live report schema
// @Description Returns the current columns, rows and branches for the report form
// @Tags settings
// @Produce  json
// @Success 200 {object} domain.ReportSchema
// @Router /schema [get]
func (h *settingsHandler) getSchema(c *gin.Context) {
	schema, err := h.settingsService.LiveSchema(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}
