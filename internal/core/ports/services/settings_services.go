package services

import (
	"context"
	"encoding/json"

	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// SettingsSvcFacade reads and writes the key-value settings, applying
// per-key write capabilities.
type SettingsSvcFacade interface {
	// GetAll returns every setting with defaults filled in for the
	// app_settings schema and pagination limit.
	GetAll(ctx context.Context) (map[string]json.RawMessage, error)

	// Upsert stores one setting; the required capability depends on the
	// key (table/telegram/general).
	Upsert(ctx context.Context, actor authz.Actor, key string, value json.RawMessage) error

	// LiveSchema returns the current app_settings schema (columns, rows,
	// locations), defaulting to empty lists when unset.
	LiveSchema(ctx context.Context) (domain.ReportSchema, error)

	// PaginationLimit returns the configured page size, defaulting when
	// unset or malformed.
	PaginationLimit(ctx context.Context) int

	// TelegramTarget returns the bot token and group id, empty strings
	// when not configured.
	TelegramTarget(ctx context.Context) (token, groupID string)
}
