package dto

// UpdateRolePermissionsRequest replaces a role's grant set with the given
// capability keys.
type UpdateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// RoleGrantResponse is one role with its granted capability keys.
type RoleGrantResponse struct {
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// CapabilityResponse is one catalog entry.
type CapabilityResponse struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// RolesResponse is the full roles view: every role's grants plus the
// catalog grouped by category.
type RolesResponse struct {
	Roles          []RoleGrantResponse             `json:"roles"`
	AllPermissions map[string][]CapabilityResponse `json:"all_permissions"`
}
