package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

// Setting keys. app_settings holds the live report schema; telegram keys
// configure the notification bridge target.
const (
	SettingAppSettings      = "app_settings"
	SettingPaginationLimit  = "pagination_limit"
	SettingTelegramBotToken = "telegram_bot_token"
	SettingTelegramGroupID  = "telegram_group_id"
)

const defaultPaginationLimit = 20

type SettingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
	logger       *slog.Logger
}

func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, logger *slog.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

func (s *SettingsService) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	settings, err := s.settingsRepo.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	if _, ok := settings[SettingAppSettings]; !ok {
		settings[SettingAppSettings] = mustMarshalSchema(emptySchema())
	}
	if _, ok := settings[SettingPaginationLimit]; !ok {
		settings[SettingPaginationLimit] = json.RawMessage(fmt.Sprintf("%d", defaultPaginationLimit))
	}
	return settings, nil
}

// capabilityForKey maps a setting key to the capability required to write it.
func capabilityForKey(key string) domain.Capability {
	switch {
	case key == SettingAppSettings:
		return domain.CapSettingsEditTable
	case strings.HasPrefix(key, "telegram_"):
		return domain.CapSettingsEditTelegram
	default:
		return domain.CapSettingsEditGeneral
	}
}

func (s *SettingsService) Upsert(ctx context.Context, actor authz.Actor, key string, value json.RawMessage) error {
	if key == "" {
		return fmt.Errorf("%w: setting key must not be empty", apperrors.ErrValidation)
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w: setting value must be valid JSON", apperrors.ErrValidation)
	}
	required := capabilityForKey(key)
	if !actor.Capabilities.Has(required) {
		return fmt.Errorf("%w: editing %q requires %q", apperrors.ErrForbidden, key, required)
	}

	if key == SettingAppSettings {
		// The schema must at least decode; a broken blob would brick the
		// report form for every branch.
		var schema domain.ReportSchema
		if err := json.Unmarshal(value, &schema); err != nil {
			return fmt.Errorf("%w: malformed schema: %v", apperrors.ErrValidation, err)
		}
	}

	if err := s.settingsRepo.UpsertSetting(ctx, key, value); err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}
	s.logger.InfoContext(ctx, "setting updated", slog.String("key", key), slog.String("updatedBy", actor.UserID))
	return nil
}

func (s *SettingsService) LiveSchema(ctx context.Context) (domain.ReportSchema, error) {
	raw, err := s.settingsRepo.GetSetting(ctx, SettingAppSettings)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return emptySchema(), nil
		}
		return domain.ReportSchema{}, fmt.Errorf("failed to load schema setting: %w", err)
	}

	var schema domain.ReportSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return domain.ReportSchema{}, fmt.Errorf("failed to decode schema setting: %w", err)
	}
	return schema, nil
}

func (s *SettingsService) PaginationLimit(ctx context.Context) int {
	raw, err := s.settingsRepo.GetSetting(ctx, SettingPaginationLimit)
	if err != nil {
		return defaultPaginationLimit
	}
	var limit int
	if err := json.Unmarshal(raw, &limit); err != nil || limit <= 0 {
		s.logger.WarnContext(ctx, "malformed pagination_limit setting, using default",
			slog.String("value", string(raw)))
		return defaultPaginationLimit
	}
	return limit
}

func (s *SettingsService) TelegramTarget(ctx context.Context) (token, groupID string) {
	token = s.stringSetting(ctx, SettingTelegramBotToken)
	groupID = s.stringSetting(ctx, SettingTelegramGroupID)
	return token, groupID
}

func (s *SettingsService) stringSetting(ctx context.Context, key string) string {
	raw, err := s.settingsRepo.GetSetting(ctx, key)
	if err != nil {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.WarnContext(ctx, "malformed string setting", slog.String("key", key))
		return ""
	}
	return v
}

func emptySchema() domain.ReportSchema {
	return domain.ReportSchema{Columns: []string{}, Rows: []string{}, Locations: []string{}}
}

func mustMarshalSchema(schema domain.ReportSchema) json.RawMessage {
	b, _ := json.Marshal(schema)
	return b
}
