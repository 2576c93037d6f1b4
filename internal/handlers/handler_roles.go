package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/middleware"
)

// roleHandler handles the permission catalog and role grant management.
type roleHandler struct {
	roleService portssvc.RoleSvcFacade
}

func newRoleHandler(rs portssvc.RoleSvcFacade) *roleHandler {
	return &roleHandler{roleService: rs}
}

// registerRoleRoutes registers the roles routes, both gated on roles:manage.
func registerRoleRoutes(rg *gin.RouterGroup, roleService portssvc.RoleSvcFacade) {
	h := newRoleHandler(roleService)

	roles := rg.Group("/roles", middleware.RequireCapability(domain.CapRolesManage))
	{
		roles.GET("", h.listRoles)
		roles.PUT("/:name", h.updateRolePermissions)
	}
}

// listRoles godoc
// @Summary Roles and the permission catalog
// @Description Returns every role's grant set plus the catalog grouped by category
// @Tags roles
// @Produce  json
// @Success 200 {object} dto.RolesResponse
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /roles [get]
func (h *roleHandler) listRoles(c *gin.Context) {
	grants, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	roles := make([]dto.RoleGrantResponse, len(grants))
	for i, g := range grants {
		keys := make([]string, len(g.Capabilities))
		for j, cap := range g.Capabilities {
			keys[j] = string(cap)
		}
		roles[i] = dto.RoleGrantResponse{RoleName: g.RoleName, Permissions: keys}
	}

	byCategory := map[string][]dto.CapabilityResponse{}
	for _, info := range h.roleService.Catalog() {
		byCategory[info.Category] = append(byCategory[info.Category], dto.CapabilityResponse{
			Key:         string(info.Key),
			Description: info.Description,
		})
	}

	c.JSON(http.StatusOK, dto.RolesResponse{Roles: roles, AllPermissions: byCategory})
}

// updateRolePermissions godoc
// @Summary Replace a role's permissions
// @Description Replaces the grant set; live sessions of the role are invalidated
// @Tags roles
// @Accept  json
// @Produce  json
// @Param   name path string true "Role name"
// @Param   permissions body dto.UpdateRolePermissionsRequest true "New permission keys"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Unknown permission key or admin role"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /roles/{name} [put]
func (h *roleHandler) updateRolePermissions(c *gin.Context) {
	var req dto.UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.roleService.SetRolePermissions(c.Request.Context(), c.Param("name"), req.Permissions); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated"})
}
