package domain

import (
	"fmt"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
)

// Capability is a single named permission granted to a role. The storage and
// wire representation stays a plain string (role_permissions table), but the
// domain works with this closed set so that unknown keys are rejected at the
// boundary instead of silently never matching.
type Capability string

const (
	CapUsersView           Capability = "users:view"
	CapUsersCreate         Capability = "users:create"
	CapUsersEdit           Capability = "users:edit"
	CapUsersChangeStatus   Capability = "users:change_status"
	CapUsersManageSessions Capability = "users:manage_sessions"

	CapReportsViewAll      Capability = "reports:view_all"
	CapReportsViewAssigned Capability = "reports:view_assigned"
	CapReportsCreate       Capability = "reports:create"
	CapReportsEditAll      Capability = "reports:edit_all"
	CapReportsEditAssigned Capability = "reports:edit_assigned"
	CapReportsEditOwn      Capability = "reports:edit_own"

	CapSettingsView         Capability = "settings:view"
	CapSettingsEditTable    Capability = "settings:edit_table"
	CapSettingsEditTelegram Capability = "settings:edit_telegram"
	CapSettingsEditGeneral  Capability = "settings:edit_general"

	CapRolesManage Capability = "roles:manage"
)

// CapabilityInfo describes a catalog entry.
type CapabilityInfo struct {
	Key         Capability `json:"key"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
}

// capabilityCatalog is the full, ordered catalog. The admin role's grant set
// is always this entire list, recomputed rather than stored.
var capabilityCatalog = []CapabilityInfo{
	{CapUsersView, "View the user list", "Users"},
	{CapUsersCreate, "Create new users", "Users"},
	{CapUsersEdit, "Edit user details", "Users"},
	{CapUsersChangeStatus, "Block or activate users", "Users"},
	{CapUsersManageSessions, "Manage user sessions", "Users"},
	{CapReportsViewAll, "View reports for all branches", "Reports"},
	{CapReportsViewAssigned, "View reports for assigned branches", "Reports"},
	{CapReportsCreate, "Create new reports", "Reports"},
	{CapReportsEditAll, "Edit any report", "Reports"},
	{CapReportsEditAssigned, "Edit reports for assigned branches", "Reports"},
	{CapReportsEditOwn, "Edit only self-created reports", "Reports"},
	{CapSettingsView, "View settings", "Settings"},
	{CapSettingsEditTable, "Edit table settings (columns, rows, branches)", "Settings"},
	{CapSettingsEditTelegram, "Edit Telegram bot settings", "Settings"},
	{CapSettingsEditGeneral, "Edit general settings (e.g. pagination)", "Settings"},
	{CapRolesManage, "Manage roles and permissions", "Permissions"},
}

var knownCapabilities = func() map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(capabilityCatalog))
	for _, info := range capabilityCatalog {
		m[info.Key] = struct{}{}
	}
	return m
}()

// AllCapabilities returns the catalog keys in catalog order.
func AllCapabilities() []Capability {
	keys := make([]Capability, len(capabilityCatalog))
	for i, info := range capabilityCatalog {
		keys[i] = info.Key
	}
	return keys
}

// CapabilityCatalog returns the full catalog entries in declaration order.
func CapabilityCatalog() []CapabilityInfo {
	out := make([]CapabilityInfo, len(capabilityCatalog))
	copy(out, capabilityCatalog)
	return out
}

// ParseCapability converts a stored/wire string into a Capability, rejecting
// unknown keys as a validation error.
func ParseCapability(key string) (Capability, error) {
	c := Capability(key)
	if _, ok := knownCapabilities[c]; !ok {
		return "", fmt.Errorf("%w: unknown capability %q", apperrors.ErrValidation, key)
	}
	return c, nil
}

// ParseCapabilities converts a slice of capability keys. The whole slice is
// rejected if any single key is unknown.
func ParseCapabilities(keys []string) ([]Capability, error) {
	caps := make([]Capability, 0, len(keys))
	for _, k := range keys {
		c, err := ParseCapability(k)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, nil
}

// CapabilitySet is a membership set over capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether the capability is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Keys returns the set contents as wire strings, in catalog order.
func (s CapabilitySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, info := range capabilityCatalog {
		if s.Has(info.Key) {
			keys = append(keys, string(info.Key))
		}
	}
	return keys
}
